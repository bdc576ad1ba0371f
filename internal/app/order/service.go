package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/adega-delivery/backend/internal/adapter/logger"
	"github.com/adega-delivery/backend/internal/domain"
	"github.com/adega-delivery/backend/internal/interfaces"
)

// Service is the order lifecycle engine. Every status change goes through
// the type-specific transition table, and mutating operations on a single
// order are serialized through an in-process lock table plus a
// compare-and-swap on the stored status.
type Service struct {
	orders    interfaces.OrderRepository
	products  interfaces.ProductRepository
	stockLogs interfaces.StockLogRepository
	motoboys  interfaces.MotoboyRepository
	publisher interfaces.EventPublisher
	logger    logger.Logger
	locks     lockTable
}

func NewService(
	orders interfaces.OrderRepository,
	products interfaces.ProductRepository,
	stockLogs interfaces.StockLogRepository,
	motoboys interfaces.MotoboyRepository,
	publisher interfaces.EventPublisher,
	logger logger.Logger,
) *Service {
	return &Service{
		orders:    orders,
		products:  products,
		stockLogs: stockLogs,
		motoboys:  motoboys,
		publisher: publisher,
		logger:    logger,
	}
}

// lockTable hands out one mutex per order id. Entries are never removed; the
// table is bounded by the number of distinct orders mutated by one process.
type lockTable struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (t *lockTable) acquire(id string) func() {
	t.mu.Lock()
	if t.m == nil {
		t.m = make(map[string]*sync.Mutex)
	}
	l, ok := t.m[id]
	if !ok {
		l = &sync.Mutex{}
		t.m[id] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *Service) CreateOrder(ctx context.Context, cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	order, err := s.buildOrder(cmd)
	if err != nil {
		s.logger.Error("order_validation_failed", "Rejected order payload", "", nil, err)
		return nil, err
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("order_create_failed", "Failed to persist order", "", nil, err)
		return nil, err
	}

	// Stock side effects are applied per item, in list order, without a
	// compensating rollback: a failure on a later item leaves earlier
	// decrements and logs in place. Unknown products keep their item
	// snapshot but skip the decrement.
	for _, item := range order.Items {
		if err := s.fulfillItem(ctx, order.ID, item); err != nil {
			s.logger.Error("stock_decrement_failed", "Failed to apply stock decrement", order.ID, map[string]interface{}{
				"product_id": item.ProductID,
				"quantity":   item.Quantity,
			}, err)
		}
	}

	s.publishCreated(ctx, order)

	s.logger.Info("order_created", fmt.Sprintf("Order %s created", order.ID), order.ID, map[string]interface{}{
		"order_type": string(order.Type),
		"items":      len(order.Items),
		"total":      order.Total.String(),
	})
	return order, nil
}

func (s *Service) buildOrder(cmd interfaces.CreateOrderCommand) (*domain.Order, error) {
	orderType := domain.OrderType(cmd.OrderType)
	if orderType != domain.OrderTypeCounter {
		orderType = domain.OrderTypeDelivery
	}

	status := domain.StatusPending
	if cmd.Status != "" {
		override := domain.Status(cmd.Status)
		if !domain.ValidStatus(override) {
			return nil, fmt.Errorf("invalid initial status %q", cmd.Status)
		}
		status = override
	}

	subtotal, err := parseMoney(cmd.Subtotal, "subtotal")
	if err != nil {
		return nil, err
	}
	discount, err := parseMoney(cmd.Discount, "discount")
	if err != nil {
		return nil, err
	}
	deliveryFee, err := parseMoney(cmd.DeliveryFee, "delivery_fee")
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:               uuid.NewString(),
		UserID:           cmd.UserID,
		AddressID:        cmd.AddressID,
		Type:             orderType,
		Status:           status,
		CustomerName:     cmd.CustomerName,
		CustomerWhatsapp: cmd.CustomerWhatsapp,
		Subtotal:         subtotal,
		Discount:         discount,
		DeliveryFee:      deliveryFee,
		CreatedAt:        time.Now(),
	}
	order.RecomputeTotal()

	for _, it := range cmd.Items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("item %s: quantity must be at least 1", it.ProductID)
		}
		unitPrice, err := parseMoney(it.UnitPrice, "unit_price")
		if err != nil {
			return nil, err
		}
		totalPrice, err := parseMoney(it.TotalPrice, "total_price")
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, domain.OrderItem{
			ID:          uuid.NewString(),
			OrderID:     order.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   unitPrice,
			TotalPrice:  totalPrice,
		})
	}

	return order, nil
}

func parseMoney(s, field string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return d, nil
}

// fulfillItem decrements the referenced product's stock by the item
// quantity, floored at zero, and appends the audit log. Decrements for
// duplicate product lines are applied independently, each flooring on its
// own.
func (s *Service) fulfillItem(ctx context.Context, orderID string, item domain.OrderItem) error {
	product, err := s.products.FindByID(ctx, item.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			s.logger.Debug("stock_skip_unknown_product", "Item references unknown product, skipping decrement", orderID, map[string]interface{}{
				"product_id": item.ProductID,
			})
			return nil
		}
		return err
	}

	previous := product.Stock
	next := previous - item.Quantity
	if next < 0 {
		next = 0
	}

	if err := s.products.UpdateStock(ctx, product.ID, next); err != nil {
		return err
	}

	return s.stockLogs.Append(ctx, &domain.StockLog{
		ID:            uuid.NewString(),
		ProductID:     product.ID,
		PreviousStock: previous,
		NewStock:      next,
		Change:        -item.Quantity,
		Reason:        fmt.Sprintf("Pedido #%s", shortID(orderID)),
		CreatedAt:     time.Now(),
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RequestTransition applies a status change after checking it against the
// transition table for the order's type. The rejection error carries the
// current status and the allowed next statuses.
func (s *Service) RequestTransition(ctx context.Context, orderID string, target string) (*domain.Order, error) {
	targetStatus := domain.Status(target)

	unlock := s.locks.acquire(orderID)
	defer unlock()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !domain.ValidStatus(targetStatus) {
		return nil, &domain.InvalidTransitionError{
			Current:   order.Status,
			Requested: targetStatus,
			Allowed:   domain.AllowedNext(order.Type, order.Status),
		}
	}

	previous := order.Status
	if err := order.Transition(targetStatus, time.Now()); err != nil {
		return nil, err
	}

	if err := s.commitStatus(ctx, order, previous); err != nil {
		return nil, err
	}

	s.publishStatusChanged(ctx, order, previous)

	s.logger.Info("order_status_changed", fmt.Sprintf("Order %s: %s -> %s", order.ID, previous, order.Status), order.ID, nil)
	return order, nil
}

// AssignCourier couples the courier reference with the dispatch transition,
// so it is gated on the order being ready rather than on the general table.
func (s *Service) AssignCourier(ctx context.Context, orderID, motoboyID string) (*domain.Order, error) {
	if _, err := s.motoboys.FindByID(ctx, motoboyID); err != nil {
		return nil, err
	}

	unlock := s.locks.acquire(orderID)
	defer unlock()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	if err := order.AssignMotoboy(motoboyID, time.Now()); err != nil {
		return nil, err
	}

	if err := s.commitStatus(ctx, order, previous); err != nil {
		return nil, err
	}

	s.publishStatusChanged(ctx, order, previous)

	s.logger.Info("courier_assigned", fmt.Sprintf("Order %s dispatched with motoboy %s", order.ID, motoboyID), order.ID, nil)
	return order, nil
}

// commitStatus persists the transition with a compare-and-swap on the prior
// status. The in-process lock already serializes local callers; the CAS
// re-validates against writers outside this process.
func (s *Service) commitStatus(ctx context.Context, order *domain.Order, previous domain.Status) error {
	err := s.orders.UpdateStatus(ctx, order, previous)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrStatusConflict) {
		return err
	}

	fresh, ferr := s.orders.FindByID(ctx, order.ID)
	if ferr != nil {
		return err
	}
	return &domain.InvalidTransitionError{
		Current:   fresh.Status,
		Requested: order.Status,
		Allowed:   domain.AllowedNext(fresh.Type, fresh.Status),
	}
}

// OverrideDeliveryFee replaces the fee, capturing the original on the first
// override, and recomputes the total.
func (s *Service) OverrideDeliveryFee(ctx context.Context, orderID, newFee string) (*domain.Order, error) {
	fee, err := decimal.NewFromString(newFee)
	if err != nil {
		return nil, domain.ErrInvalidFee
	}

	unlock := s.locks.acquire(orderID)
	defer unlock()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.OverrideDeliveryFee(fee, time.Now()); err != nil {
		return nil, err
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("delivery_fee_overridden", fmt.Sprintf("Order %s fee set to %s", order.ID, order.DeliveryFee.String()), order.ID, map[string]interface{}{
		"original_fee": order.OriginalDeliveryFee.String(),
		"new_total":    order.Total.String(),
	})
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

func (s *Service) OrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	if _, err := s.orders.FindByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.orders.Items(ctx, orderID)
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.ListAll(ctx)
}

func (s *Service) ListOrdersByStatus(ctx context.Context, status string) ([]*domain.Order, error) {
	st := domain.Status(status)
	if !domain.ValidStatus(st) {
		return nil, fmt.Errorf("invalid status %q", status)
	}
	return s.orders.ListByStatus(ctx, st)
}

func (s *Service) ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *Service) publishCreated(ctx context.Context, order *domain.Order) {
	if s.publisher == nil {
		return
	}
	msg := interfaces.OrderCreatedMessage{
		OrderID:      order.ID,
		OrderType:    string(order.Type),
		Status:       string(order.Status),
		CustomerName: order.CustomerName,
		Subtotal:     order.Subtotal.String(),
		DeliveryFee:  order.DeliveryFee.String(),
		Total:        order.Total.String(),
		CreatedAt:    order.CreatedAt,
	}
	if err := s.publisher.PublishOrderCreated(ctx, msg); err != nil {
		// The order is already committed; messaging is best-effort.
		s.logger.Error("publish_failed", "Failed to publish order.created", order.ID, nil, err)
	}
}

func (s *Service) publishStatusChanged(ctx context.Context, order *domain.Order, previous domain.Status) {
	if s.publisher == nil {
		return
	}
	msg := interfaces.StatusChangedMessage{
		OrderID:   order.ID,
		OrderType: string(order.Type),
		OldStatus: string(previous),
		NewStatus: string(order.Status),
		MotoboyID: order.MotoboyID,
		Timestamp: time.Now(),
	}
	if err := s.publisher.PublishStatusChanged(ctx, msg); err != nil {
		s.logger.Error("publish_failed", "Failed to publish status change", order.ID, nil, err)
	}
}
