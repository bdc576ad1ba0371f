package postgres

import (
	"context"
	"fmt"

	"github.com/adega-delivery/backend/internal/domain"
	"github.com/adega-delivery/backend/internal/interfaces"
)

type stockLogRepository struct {
	db DB
}

func NewStockLogRepository(db DB) interfaces.StockLogRepository {
	return &stockLogRepository{db: db}
}

func (r *stockLogRepository) Append(ctx context.Context, log *domain.StockLog) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO stock_logs (id, product_id, previous_stock, new_stock, change, reason, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		log.ID, log.ProductID, log.PreviousStock, log.NewStock, log.Change, log.Reason, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append stock log: %w", err)
	}
	return nil
}
