package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventReservationConflict = "reservation_conflict"
	EventSummaryDegraded     = "summary_degraded"
	EventOrderConfirmed      = "order_confirmed"
)

// ReservationConflictPayload describes a proposed stay rejected as overlapping.
type ReservationConflictPayload struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

// SummaryDegradedPayload is published when the dashboard fell back to
// computing the summary locally.
type SummaryDegradedPayload struct {
	RemoteError string   `json:"remote_error"`
	Failed      []string `json:"failed,omitempty"`
	Unavailable bool     `json:"unavailable"`
}

// OrderConfirmedPayload is the snapshot of a confirmed food order.
type OrderConfirmedPayload struct {
	SessionID string  `json:"session_id"`
	Items     int     `json:"items"`
	Total     float64 `json:"total"`
	Link      string  `json:"link,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type and returns the first
// handler error. Every handler runs regardless.
func (b *EventBus) Publish(event *Event) error {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var first error
	for _, handler := range handlers {
		if err := handler(event); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
}
