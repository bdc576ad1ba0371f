package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the central entity of the storefront backend.
type Order struct {
	ID        string
	UserID    string
	AddressID *string
	Type      OrderType
	Status    Status

	CustomerName     string
	CustomerWhatsapp string

	Items []OrderItem

	Subtotal            decimal.Decimal
	Discount            decimal.Decimal
	DeliveryFee         decimal.Decimal
	OriginalDeliveryFee *decimal.Decimal
	DeliveryFeeAdjusted bool
	Total               decimal.Decimal

	MotoboyID *string

	CreatedAt             time.Time
	AcceptedAt            *time.Time
	PreparingAt           *time.Time
	ReadyAt               *time.Time
	DispatchedAt          *time.Time
	ArrivedAt             *time.Time
	DeliveredAt           *time.Time
	DeliveryFeeAdjustedAt *time.Time
}

// OrderItem is an immutable line snapshot created alongside the order.
type OrderItem struct {
	ID          string
	OrderID     string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// RecomputeTotal derives total from subtotal, discount and the current fee.
func (o *Order) RecomputeTotal() {
	o.Total = o.Subtotal.Sub(o.Discount).Add(o.DeliveryFee).Round(2)
}

// Transition moves the order to target if the order type's table has a
// matching edge, stamping the transition timestamp the first time that
// status is reached. Cancellation has no dedicated timestamp field.
func (o *Order) Transition(target Status, now time.Time) error {
	if !CanTransition(o.Type, o.Status, target) {
		return &InvalidTransitionError{
			Current:   o.Status,
			Requested: target,
			Allowed:   AllowedNext(o.Type, o.Status),
		}
	}

	o.Status = target
	o.stamp(target, now)
	return nil
}

func (o *Order) stamp(s Status, now time.Time) {
	set := func(field **time.Time) {
		if *field == nil {
			t := now
			*field = &t
		}
	}

	switch s {
	case StatusAccepted:
		set(&o.AcceptedAt)
	case StatusPreparing:
		set(&o.PreparingAt)
	case StatusReady:
		set(&o.ReadyAt)
	case StatusDispatched:
		set(&o.DispatchedAt)
	case StatusArrived:
		set(&o.ArrivedAt)
	case StatusDelivered:
		set(&o.DeliveredAt)
	}
}

// AssignMotoboy sets the courier and dispatches the order in one step.
// Unlike a plain transition this requires the order to be ready, because it
// couples the status change with the courier reference.
func (o *Order) AssignMotoboy(motoboyID string, now time.Time) error {
	if o.Status != StatusReady {
		return &PreconditionFailedError{
			Op:       "courier assignment",
			Required: StatusReady,
			Actual:   o.Status,
		}
	}

	o.MotoboyID = &motoboyID
	o.Status = StatusDispatched
	o.stamp(StatusDispatched, now)
	return nil
}

// OverrideDeliveryFee replaces the delivery fee, capturing the pre-override
// fee into OriginalDeliveryFee on the first override only, and recomputes
// the total. Negative fees are rejected.
func (o *Order) OverrideDeliveryFee(newFee decimal.Decimal, now time.Time) error {
	if newFee.IsNegative() {
		return ErrInvalidFee
	}

	if o.OriginalDeliveryFee == nil {
		original := o.DeliveryFee
		o.OriginalDeliveryFee = &original
	}

	t := now
	o.DeliveryFee = newFee.Round(2)
	o.DeliveryFeeAdjusted = true
	o.DeliveryFeeAdjustedAt = &t
	o.RecomputeTotal()
	return nil
}

// StockLog is an append-only audit record of an inventory change.
type StockLog struct {
	ID            string
	ProductID     string
	PreviousStock int
	NewStock      int
	Change        int
	Reason        string
	CreatedAt     time.Time
}

// Product holds the inventory-relevant fields of a catalog product.
type Product struct {
	ID        string
	Name      string
	Stock     int
	CostPrice decimal.Decimal
	SalePrice decimal.Decimal
	IsActive  bool
}

// Motoboy is a courier/delivery driver.
type Motoboy struct {
	ID       string
	Name     string
	Whatsapp string
	IsActive bool
}
