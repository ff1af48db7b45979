package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventSessionUpdated        = "session_updated"
	EventSessionExpired        = "session_expired"
	EventBookingCommitted      = "booking_committed"
	EventCancellationSubmitted = "cancellation_submitted"
)

// SessionEventPayload identifies the user whose session changed.
type SessionEventPayload struct {
	UserID     int64  `json:"user_id"`
	CustomerID string `json:"id_customer,omitempty"`
	Role       string `json:"role,omitempty"`
}

// BookingEventPayload is the booking snapshot sent to event consumers.
type BookingEventPayload struct {
	UserID        int64  `json:"user_id"`
	TransactionID int64  `json:"id_transaction"`
	VehicleID     int64  `json:"id_vehicle"`
	VehicleName   string `json:"vehicle_name"`
	PaymentMethod string `json:"payment_method,omitempty"`
	TotalPrice    int64  `json:"total_price,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub. Screens subscribe to session events so
// an expiry observed by one flow is reflected everywhere.
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

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
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

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
