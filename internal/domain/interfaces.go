package domain

import (
	"context"
	"time"

	"staybook/internal/models"
)

// HotelSource reads snapshots from the hotel REST API.
type HotelSource interface {
	ListRooms(ctx context.Context) ([]models.Record, error)
	ListReservations(ctx context.Context) ([]models.Record, error)
	ListCheckIns(ctx context.Context) ([]models.Record, error)
	ListFood(ctx context.Context) ([]models.Record, error)
	GetSummary(ctx context.Context) (*models.Summary, error)
}

// CartRepository stores order lines per ordering session.
type CartRepository interface {
	GetLines(ctx context.Context, sessionID string) ([]models.OrderLine, error)
	SaveLines(ctx context.Context, sessionID string, lines []models.OrderLine) error
	ClearLines(ctx context.Context, sessionID string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type DashboardService interface {
	Summary(ctx context.Context) (*models.SummaryResult, error)
}

type AvailabilityService interface {
	BlockedRanges(ctx context.Context) ([]models.Interval, error)
	CheckStay(ctx context.Context, checkIn, checkOut time.Time) error
}

type OrderService interface {
	NewSession() string
	Menu(ctx context.Context, category string) ([]models.FoodItem, error)
	AddItem(ctx context.Context, sessionID string, foodID int64) ([]models.OrderLine, error)
	Cart(ctx context.Context, sessionID string) ([]models.OrderLine, error)
	Confirm(ctx context.Context, sessionID string) (*models.ConfirmedOrder, error)
}
