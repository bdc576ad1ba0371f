package interfaces

import (
	"context"
	"time"
)

// OrderCreatedMessage announces a freshly created order on the orders
// exchange so back-office consumers can pick it up.
type OrderCreatedMessage struct {
	OrderID      string    `json:"order_id"`
	OrderType    string    `json:"order_type"`
	Status       string    `json:"status"`
	CustomerName string    `json:"customer_name"`
	Subtotal     string    `json:"subtotal"`
	DeliveryFee  string    `json:"delivery_fee"`
	Total        string    `json:"total"`
	CreatedAt    time.Time `json:"created_at"`
}

// StatusChangedMessage announces a lifecycle transition on the fanout
// exchange. Clients still poll the HTTP API; this is internal messaging.
type StatusChangedMessage struct {
	OrderID   string    `json:"order_id"`
	OrderType string    `json:"order_type"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	MotoboyID *string   `json:"motoboy_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, msg OrderCreatedMessage) error
	PublishStatusChanged(ctx context.Context, msg StatusChangedMessage) error
}

type StatusChangedHandler func(ctx context.Context, body []byte) error

type EventConsumer interface {
	ConsumeStatusChanges(ctx context.Context, handler StatusChangedHandler) error
}
