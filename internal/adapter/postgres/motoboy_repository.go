package postgres

import (
	"context"
	"fmt"

	"github.com/adega-delivery/backend/internal/domain"
	"github.com/adega-delivery/backend/internal/interfaces"
)

type motoboyRepository struct {
	db DB
}

func NewMotoboyRepository(db DB) interfaces.MotoboyRepository {
	return &motoboyRepository{db: db}
}

func (r *motoboyRepository) FindByID(ctx context.Context, id string) (*domain.Motoboy, error) {
	var m domain.Motoboy
	err := r.db.QueryRow(ctx, `
		SELECT id, name, whatsapp, is_active FROM motoboys WHERE id = $1
	`, id).Scan(&m.ID, &m.Name, &m.Whatsapp, &m.IsActive)
	if err != nil {
		return nil, domain.ErrMotoboyNotFound
	}
	return &m, nil
}

func (r *motoboyRepository) ListAll(ctx context.Context) ([]*domain.Motoboy, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, whatsapp, is_active FROM motoboys ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query motoboys: %w", err)
	}
	defer rows.Close()

	var motoboys []*domain.Motoboy
	for rows.Next() {
		var m domain.Motoboy
		if err := rows.Scan(&m.ID, &m.Name, &m.Whatsapp, &m.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan motoboy: %w", err)
		}
		motoboys = append(motoboys, &m)
	}
	return motoboys, nil
}
