package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adega-delivery/backend/internal/domain"
	"github.com/adega-delivery/backend/internal/interfaces"
)

type orderRepository struct {
	db DB
}

func NewOrderRepository(db DB) interfaces.OrderRepository {
	return &orderRepository{db: db}
}

// NUMERIC columns travel as text and are parsed into decimals on scan.
const orderColumns = `
	id, user_id, address_id, type, status, customer_name, customer_whatsapp,
	subtotal::text, discount::text, delivery_fee::text, original_delivery_fee::text,
	delivery_fee_adjusted, total::text, motoboy_id,
	created_at, accepted_at, preparing_at, ready_at, dispatched_at,
	arrived_at, delivered_at, delivery_fee_adjusted_at
`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (
			id, user_id, address_id, type, status, customer_name, customer_whatsapp,
			subtotal, discount, delivery_fee, delivery_fee_adjusted, total,
			motoboy_id, created_at
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		order.ID, order.UserID, order.AddressID, order.Type, order.Status,
		order.CustomerName, order.CustomerWhatsapp,
		order.Subtotal.String(), order.Discount.String(), order.DeliveryFee.String(),
		order.DeliveryFeeAdjusted, order.Total.String(),
		order.MotoboyID, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price, total_price)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`,
			item.ID, order.ID, item.ProductID, item.ProductName,
			item.Quantity, item.UnitPrice.String(), item.TotalPrice.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (r *orderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *orderRepository) ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at DESC`, status)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *orderRepository) ListActiveByMotoboy(ctx context.Context, motoboyID string) ([]*domain.Order, error) {
	return r.list(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE motoboy_id = $1 AND status IN ($2, $3)
		ORDER BY dispatched_at ASC
	`, motoboyID, domain.StatusDispatched, domain.StatusArrived)
}

func (r *orderRepository) ListDeliveredByMotoboy(ctx context.Context, motoboyID string, from, to *time.Time) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE motoboy_id = $1 AND status = $2`
	args := []any{motoboyID, domain.StatusDelivered}

	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND delivered_at >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND delivered_at <= $%d", len(args))
	}
	query += " ORDER BY delivered_at DESC"

	return r.list(ctx, query, args...)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *orderRepository) Items(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, product_name, quantity, unit_price::text, total_price::text
		FROM order_items WHERE order_id = $1
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		var unitPrice, totalPrice string
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &unitPrice, &totalPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if item.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, fmt.Errorf("invalid unit price %q: %w", unitPrice, err)
		}
		if item.TotalPrice, err = decimal.NewFromString(totalPrice); err != nil {
			return nil, fmt.Errorf("invalid total price %q: %w", totalPrice, err)
		}
		items = append(items, item)
	}
	return items, nil
}

const updateOrderSet = `
	status = $2, motoboy_id = $3,
	delivery_fee = $4, original_delivery_fee = $5, delivery_fee_adjusted = $6, total = $7,
	accepted_at = $8, preparing_at = $9, ready_at = $10, dispatched_at = $11,
	arrived_at = $12, delivered_at = $13, delivery_fee_adjusted_at = $14
`

func updateOrderArgs(order *domain.Order) []any {
	var original *string
	if order.OriginalDeliveryFee != nil {
		s := order.OriginalDeliveryFee.String()
		original = &s
	}
	return []any{
		order.ID, order.Status, order.MotoboyID,
		order.DeliveryFee.String(), original, order.DeliveryFeeAdjusted, order.Total.String(),
		order.AcceptedAt, order.PreparingAt, order.ReadyAt, order.DispatchedAt,
		order.ArrivedAt, order.DeliveredAt, order.DeliveryFeeAdjustedAt,
	}
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	affected, err := r.db.Exec(ctx, `UPDATE orders SET `+updateOrderSet+` WHERE id = $1`, updateOrderArgs(order)...)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if affected == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// UpdateStatus re-validates the transition at the row level: the write only
// lands if the stored status still equals the one the caller read.
func (r *orderRepository) UpdateStatus(ctx context.Context, order *domain.Order, expected domain.Status) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE orders SET `+updateOrderSet+` WHERE id = $1 AND status = $15`,
		append(updateOrderArgs(order), expected)...,
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if affected == 0 {
		return domain.ErrStatusConflict
	}
	return nil
}

// scanOrder reads one row in orderColumns order.
func scanOrder(row Row) (*domain.Order, error) {
	var o domain.Order
	var subtotal, discount, deliveryFee, total string
	var originalFee *string

	err := row.Scan(
		&o.ID, &o.UserID, &o.AddressID, &o.Type, &o.Status, &o.CustomerName, &o.CustomerWhatsapp,
		&subtotal, &discount, &deliveryFee, &originalFee,
		&o.DeliveryFeeAdjusted, &total, &o.MotoboyID,
		&o.CreatedAt, &o.AcceptedAt, &o.PreparingAt, &o.ReadyAt, &o.DispatchedAt,
		&o.ArrivedAt, &o.DeliveredAt, &o.DeliveryFeeAdjustedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan order: %w", err)
	}

	if o.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return nil, fmt.Errorf("invalid subtotal %q: %w", subtotal, err)
	}
	if o.Discount, err = decimal.NewFromString(discount); err != nil {
		return nil, fmt.Errorf("invalid discount %q: %w", discount, err)
	}
	if o.DeliveryFee, err = decimal.NewFromString(deliveryFee); err != nil {
		return nil, fmt.Errorf("invalid delivery fee %q: %w", deliveryFee, err)
	}
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("invalid total %q: %w", total, err)
	}
	if originalFee != nil {
		d, err := decimal.NewFromString(*originalFee)
		if err != nil {
			return nil, fmt.Errorf("invalid original delivery fee %q: %w", *originalFee, err)
		}
		o.OriginalDeliveryFee = &d
	}

	return &o, nil
}
