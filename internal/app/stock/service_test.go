package stock

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adega-delivery/backend/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, string, string, map[string]interface{})         {}
func (nopLogger) Debug(string, string, string, map[string]interface{})        {}
func (nopLogger) Error(string, string, string, map[string]interface{}, error) {}

type stubProductRepo struct {
	products []*domain.Product
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *stubProductRepo) ListAll(_ context.Context) ([]*domain.Product, error) {
	return r.products, nil
}

func (r *stubProductRepo) UpdateStock(_ context.Context, id string, stock int) error {
	p, err := r.FindByID(context.Background(), id)
	if err != nil {
		return err
	}
	p.Stock = stock
	return nil
}

func money(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func catalog() []*domain.Product {
	return []*domain.Product{
		{ID: "p1", Name: "Cerveja", Stock: 24, CostPrice: money("3.50"), SalePrice: money("7.00"), IsActive: true},
		{ID: "p2", Name: "Vinho", Stock: 4, CostPrice: money("20.00"), SalePrice: money("45.00"), IsActive: true},
		{ID: "p3", Name: "Gelo", Stock: 0, CostPrice: money("2.00"), SalePrice: money("5.00"), IsActive: true},
		{ID: "p4", Name: "Descontinuado", Stock: 1, CostPrice: money("10.00"), SalePrice: money("15.00"), IsActive: false},
	}
}

func TestReportAggregates(t *testing.T) {
	svc := NewService(&stubProductRepo{products: catalog()}, nopLogger{})

	report, err := svc.Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalProducts)
	assert.Equal(t, 3, report.ActiveProducts)
	assert.Equal(t, 29, report.TotalUnitsInStock)
	// 24*3.50 + 4*20.00 + 0 + 1*10.00
	assert.Equal(t, "174.00", report.TotalCostValue.StringFixed(2))
	// 24*7.00 + 4*45.00 + 0 + 1*15.00
	assert.Equal(t, "363.00", report.TotalSaleValue.StringFixed(2))

	// Inactive products never count as low or out of stock.
	assert.Equal(t, 1, report.LowStockCount)
	assert.Equal(t, 1, report.OutOfStockCount)

	require.Len(t, report.Products, 4)
	beer := report.Products[0]
	assert.Equal(t, "3.50", beer.ProfitPerUnit.StringFixed(2))
	assert.Equal(t, "84.00", beer.TotalPotentialProfit.StringFixed(2))
}

func TestLowStockUsesDefaultThreshold(t *testing.T) {
	svc := NewService(&stubProductRepo{products: catalog()}, nopLogger{})

	report, err := svc.LowStock(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, 10, report.Threshold)
	require.Len(t, report.Products, 2)

	// Sorted by current stock, most urgent first.
	assert.Equal(t, "p3", report.Products[0].ID)
	assert.Equal(t, "p2", report.Products[1].ID)

	// Gelo: 10-0=10 suggested, Vinho: 10-4=6 suggested.
	assert.Equal(t, 10, report.Products[0].SuggestedPurchase)
	assert.Equal(t, 6, report.Products[1].SuggestedPurchase)
	// 10*2.00 + 6*20.00
	assert.Equal(t, "140.00", report.TotalEstimatedPurchaseCost.StringFixed(2))
}

func TestLowStockSuggestsAtLeastFive(t *testing.T) {
	svc := NewService(&stubProductRepo{products: []*domain.Product{
		{ID: "p1", Name: "Cerveja", Stock: 9, CostPrice: money("3.00"), SalePrice: money("6.00"), IsActive: true},
	}}, nopLogger{})

	report, err := svc.LowStock(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, report.Products, 1)
	assert.Equal(t, 5, report.Products[0].SuggestedPurchase)
	assert.Equal(t, "15.00", report.Products[0].EstimatedPurchaseCost.StringFixed(2))
}

func TestLowStockCustomThresholdExcludesStocked(t *testing.T) {
	svc := NewService(&stubProductRepo{products: catalog()}, nopLogger{})

	report, err := svc.LowStock(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Threshold)
	require.Len(t, report.Products, 1)
	assert.Equal(t, "p3", report.Products[0].ID)
}
