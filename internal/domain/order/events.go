package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType names an order lifecycle event
type EventType string

const (
	EventOrderPlaced      EventType = "order.placed"
	EventPaymentRequested EventType = "order.payment_requested"
	EventOrderCancelled   EventType = "order.cancelled"
)

// Event is published when an order changes in a way other systems care about
type Event struct {
	Type          EventType       `json:"type"`
	OrderID       uuid.UUID       `json:"order_id"`
	UserID        uuid.UUID       `json:"user_id"`
	Status        OrderStatus     `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Total         decimal.Decimal `json:"total"`
	ItemCount     int             `json:"item_count"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewEvent builds an event snapshot of o
func NewEvent(t EventType, o *Order, now time.Time) Event {
	return Event{
		Type:          t,
		OrderID:       o.ID,
		UserID:        o.UserID,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		PaymentMethod: o.PaymentMethod,
		Total:         o.Total,
		ItemCount:     o.ItemCount(),
		OccurredAt:    now,
	}
}
