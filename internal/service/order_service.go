package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"slices"
	"sync"

	"staybook/internal/domain"
	"staybook/internal/events"
	"staybook/internal/metrics"
	"staybook/internal/models"
	"staybook/internal/order"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrFoodNotFound    = errors.New("food item not found")
	ErrUnknownCategory = errors.New("unknown food category")
	ErrInvalidSession  = errors.New("invalid order session")
)

const sessionLockShards = 64

type OrderService struct {
	source         domain.HotelSource
	carts          domain.CartRepository
	eventBus       domain.EventPublisher
	logger         *zerolog.Logger
	currency       string
	whatsAppNumber string

	// Adds and confirmations of one session are serialized.
	locks [sessionLockShards]sync.Mutex
}

func NewOrderService(source domain.HotelSource, carts domain.CartRepository, eventBus domain.EventPublisher, currency, whatsAppNumber string, logger *zerolog.Logger) *OrderService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return &OrderService{
		source:         source,
		carts:          carts,
		eventBus:       eventBus,
		logger:         logger,
		currency:       currency,
		whatsAppNumber: whatsAppNumber,
	}
}

// NewSession starts an ordering session.
func (s *OrderService) NewSession() string {
	return uuid.NewString()
}

func (s *OrderService) lock(sessionID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	mu := &s.locks[h.Sum32()%sessionLockShards]
	mu.Lock()
	return mu.Unlock
}

func validSession(sessionID string) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidSession, sessionID)
	}
	return nil
}

// Menu lists food items, optionally narrowed to one category.
func (s *OrderService) Menu(ctx context.Context, category string) ([]models.FoodItem, error) {
	if category != "" && category != models.CategoryAll && !slices.Contains(models.FoodCategories, category) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	records, err := s.source.ListFood(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load menu")
		return nil, fmt.Errorf("list food: %w", err)
	}
	return order.FilterByCategory(models.FoodItemsFromRecords(records), category), nil
}

// AddItem adds one unit of a menu item to the session's cart.
func (s *OrderService) AddItem(ctx context.Context, sessionID string, foodID int64) ([]models.OrderLine, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}

	menu, err := s.Menu(ctx, models.CategoryAll)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(menu, func(item models.FoodItem) bool { return item.ID == foodID })
	if idx < 0 {
		return nil, fmt.Errorf("%w: %d", ErrFoodNotFound, foodID)
	}

	unlock := s.lock(sessionID)
	defer unlock()

	lines, err := s.carts.GetLines(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	lines = order.AddLine(lines, menu[idx])
	if err := s.carts.SaveLines(ctx, sessionID, lines); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return lines, nil
}

// Cart returns the session's current lines, empty for an unknown session.
func (s *OrderService) Cart(ctx context.Context, sessionID string) ([]models.OrderLine, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}

	lines, err := s.carts.GetLines(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if lines == nil {
		lines = []models.OrderLine{}
	}
	return lines, nil
}

// Confirm renders the order message from the current lines and clears the
// cart. An empty cart yields order.ErrEmptyCart and nothing is cleared. If
// clearing fails the order is not confirmed.
func (s *OrderService) Confirm(ctx context.Context, sessionID string) (*models.ConfirmedOrder, error) {
	if err := validSession(sessionID); err != nil {
		return nil, err
	}

	unlock := s.lock(sessionID)
	defer unlock()

	lines, err := s.carts.GetLines(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	msg, err := order.BuildMessage(lines, s.currency)
	if err != nil {
		return nil, err
	}
	if err := s.carts.ClearLines(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	confirmed := &models.ConfirmedOrder{
		SessionID: sessionID,
		Message:   msg.Text,
		Lines:     msg.Lines,
		Total:     msg.Total,
	}
	if s.whatsAppNumber != "" {
		confirmed.Link = order.WhatsAppLink(s.whatsAppNumber, msg)
	}

	metrics.IncOrderConfirmed()
	s.logger.Info().Str("session_id", sessionID).Int("lines", len(msg.Lines)).Float64("total", msg.Total).Msg("order confirmed")
	s.publishConfirmed(confirmed)

	return confirmed, nil
}

func (s *OrderService) publishConfirmed(o *models.ConfirmedOrder) {
	if s.eventBus == nil {
		return
	}

	var items int
	for _, l := range o.Lines {
		items += int(l.Quantity)
	}
	payload := events.OrderConfirmedPayload{
		SessionID: o.SessionID,
		Items:     items,
		Total:     o.Total,
		Link:      o.Link,
	}
	if err := s.eventBus.PublishJSON(events.EventOrderConfirmed, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", events.EventOrderConfirmed).Msg("publish event error")
	}
}
