package events

import (
	"time"

	"github.com/spec-kit/storefront-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered     EventType = "user_registered"
	EventOrderPlaced        EventType = "order_placed"
	EventOrderStatusChanged EventType = "order_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderPlacedPayload payload.
type OrderPlacedPayload struct {
	Number     string  `json:"number"`
	UserID     string  `json:"user_id"`
	TotalPrice float64 `json:"total_price"`
	ItemCount  int     `json:"item_count"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	OldStatus domain.OrderStatus `json:"old_status"`
	NewStatus domain.OrderStatus `json:"new_status"`
}
