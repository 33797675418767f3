package order

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"staybook/internal/models"
)

const (
	messageGreeting = "Hello, I would like to place a food order."
	messageClosing  = "Thank you."
	whatsAppBaseURL = "https://wa.me/"
)

// OutboundMessage is the plain-text order handed to the messaging link.
type OutboundMessage struct {
	Text  string             `json:"text"`
	Lines []models.OrderLine `json:"lines"`
	Total float64            `json:"total"`
}

// BuildMessage renders lines in order, one per item, followed by the total.
func BuildMessage(lines []models.OrderLine, currency string) (OutboundMessage, error) {
	if len(lines) == 0 {
		return OutboundMessage{}, ErrEmptyCart
	}

	var b strings.Builder
	b.WriteString(messageGreeting)
	b.WriteString("\n\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "• %s × %d – %s%s\n", l.Item.Name, l.Quantity, currency, FormatAmount(l.Amount()))
	}
	total := Total(lines)
	fmt.Fprintf(&b, "\n*Total Amount:* %s%s\n\n%s", currency, FormatAmount(total), messageClosing)

	snapshot := make([]models.OrderLine, len(lines))
	copy(snapshot, lines)
	return OutboundMessage{Text: b.String(), Lines: snapshot, Total: total}, nil
}

// FormatAmount prints an amount rounded to cents without trailing zeros:
// 250, 12.5.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// WhatsAppLink builds the click-to-chat deep link for msg.
func WhatsAppLink(number string, msg OutboundMessage) string {
	return whatsAppBaseURL + url.PathEscape(strings.TrimPrefix(number, "+")) + "?text=" + url.QueryEscape(msg.Text)
}
