// Package order implements the food ordering cart and the outbound order
// message handed to the messaging deep link.
package order

import (
	"errors"

	"staybook/internal/models"
)

var ErrEmptyCart = errors.New("no items in order")

// AddLine returns a new line list with item added: an existing line for the
// same id gains one unit, otherwise a line with quantity 1 is appended.
func AddLine(lines []models.OrderLine, item models.FoodItem) []models.OrderLine {
	out := make([]models.OrderLine, len(lines), len(lines)+1)
	copy(out, lines)
	for i := range out {
		if out[i].Item.ID == item.ID {
			out[i].Quantity++
			return out
		}
	}
	return append(out, models.OrderLine{Item: item, Quantity: 1})
}

// Total sums price times quantity over all lines.
func Total(lines []models.OrderLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.Amount()
	}
	return sum
}

// FilterByCategory keeps items of the given category; "all" or an empty
// category keeps everything.
func FilterByCategory(items []models.FoodItem, category string) []models.FoodItem {
	if category == "" || category == models.CategoryAll {
		return items
	}
	out := make([]models.FoodItem, 0, len(items))
	for _, item := range items {
		if item.Category == category {
			out = append(out, item)
		}
	}
	return out
}
