package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/adega-delivery/backend/internal/domain"
	"github.com/adega-delivery/backend/internal/interfaces"
)

type productRepository struct {
	db DB
}

func NewProductRepository(db DB) interfaces.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, name, stock, cost_price::text, sale_price::text, is_active
		FROM products WHERE id = $1
	`, id)

	product, err := scanProduct(row)
	if err != nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

func (r *productRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, stock, cost_price::text, sale_price::text, is_active
		FROM products ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func (r *productRepository) UpdateStock(ctx context.Context, id string, stock int) error {
	affected, err := r.db.Exec(ctx, `UPDATE products SET stock = $1 WHERE id = $2`, stock, id)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func scanProduct(row Row) (*domain.Product, error) {
	var p domain.Product
	var costPrice, salePrice string

	if err := row.Scan(&p.ID, &p.Name, &p.Stock, &costPrice, &salePrice, &p.IsActive); err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}

	var err error
	if p.CostPrice, err = decimal.NewFromString(costPrice); err != nil {
		return nil, fmt.Errorf("invalid cost price %q: %w", costPrice, err)
	}
	if p.SalePrice, err = decimal.NewFromString(salePrice); err != nil {
		return nil, fmt.Errorf("invalid sale price %q: %w", salePrice, err)
	}
	return &p, nil
}
