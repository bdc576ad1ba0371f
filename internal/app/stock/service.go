package stock

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/adega-delivery/backend/internal/adapter/logger"
	"github.com/adega-delivery/backend/internal/interfaces"
)

const defaultThreshold = 10

// Service builds the inventory reports the back office uses for restocking.
type Service struct {
	products interfaces.ProductRepository
	logger   logger.Logger
}

func NewService(products interfaces.ProductRepository, logger logger.Logger) *Service {
	return &Service{products: products, logger: logger}
}

func (s *Service) Report(ctx context.Context) (*interfaces.StockReport, error) {
	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &interfaces.StockReport{
		TotalProducts:  len(products),
		TotalCostValue: decimal.Zero,
		TotalSaleValue: decimal.Zero,
	}

	for _, p := range products {
		stock := decimal.NewFromInt(int64(p.Stock))
		entry := interfaces.StockReportProduct{
			ID:                   p.ID,
			Name:                 p.Name,
			Stock:                p.Stock,
			CostPrice:            p.CostPrice,
			SalePrice:            p.SalePrice,
			ProfitPerUnit:        p.SalePrice.Sub(p.CostPrice),
			TotalCostValue:       p.CostPrice.Mul(stock),
			TotalSaleValue:       p.SalePrice.Mul(stock),
			TotalPotentialProfit: p.SalePrice.Sub(p.CostPrice).Mul(stock),
			IsActive:             p.IsActive,
		}
		report.Products = append(report.Products, entry)

		report.TotalUnitsInStock += p.Stock
		report.TotalCostValue = report.TotalCostValue.Add(entry.TotalCostValue)
		report.TotalSaleValue = report.TotalSaleValue.Add(entry.TotalSaleValue)
		if p.IsActive {
			report.ActiveProducts++
			if p.Stock == 0 {
				report.OutOfStockCount++
			} else if p.Stock < defaultThreshold {
				report.LowStockCount++
			}
		}
	}

	return report, nil
}

func (s *Service) LowStock(ctx context.Context, threshold int) (*interfaces.LowStockReport, error) {
	if threshold <= 0 {
		threshold = defaultThreshold
	}

	products, err := s.products.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &interfaces.LowStockReport{
		Threshold:                  threshold,
		TotalEstimatedPurchaseCost: decimal.Zero,
	}

	for _, p := range products {
		if !p.IsActive || p.Stock >= threshold {
			continue
		}

		suggested := threshold - p.Stock
		if suggested < 5 {
			suggested = 5
		}
		cost := p.CostPrice.Mul(decimal.NewFromInt(int64(suggested)))

		report.Products = append(report.Products, interfaces.LowStockProduct{
			ID:                    p.ID,
			Name:                  p.Name,
			CurrentStock:          p.Stock,
			SuggestedPurchase:     suggested,
			CostPrice:             p.CostPrice,
			EstimatedPurchaseCost: cost,
		})
		report.TotalEstimatedPurchaseCost = report.TotalEstimatedPurchaseCost.Add(cost)
	}

	sort.Slice(report.Products, func(i, j int) bool {
		return report.Products[i].CurrentStock < report.Products[j].CurrentStock
	})
	report.TotalLowStockItems = len(report.Products)

	return report, nil
}
