package interfaces

import (
	"context"
	"time"

	"github.com/adega-delivery/backend/internal/domain"
)

type OrderRepository interface {
	// Create persists the order together with its item snapshots.
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	// ListActiveByMotoboy returns the courier's in-flight orders
	// (dispatched or arrived).
	ListActiveByMotoboy(ctx context.Context, motoboyID string) ([]*domain.Order, error)
	// ListDeliveredByMotoboy returns delivered orders for a courier within
	// an optional date window.
	ListDeliveredByMotoboy(ctx context.Context, motoboyID string, from, to *time.Time) ([]*domain.Order, error)
	Items(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	// Update writes the order's mutable fields unconditionally.
	Update(ctx context.Context, order *domain.Order) error
	// UpdateStatus writes the order's mutable fields only if the stored
	// status still equals expected, returning domain.ErrStatusConflict
	// otherwise.
	UpdateStatus(ctx context.Context, order *domain.Order, expected domain.Status) error
}

type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	ListAll(ctx context.Context) ([]*domain.Product, error)
	UpdateStock(ctx context.Context, id string, stock int) error
}

type StockLogRepository interface {
	Append(ctx context.Context, log *domain.StockLog) error
}

type MotoboyRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Motoboy, error)
	ListAll(ctx context.Context) ([]*domain.Motoboy, error)
}
