package motoboy

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adega-delivery/backend/internal/adapter/logger"
	"github.com/adega-delivery/backend/internal/domain"
	"github.com/adega-delivery/backend/internal/interfaces"
)

// Service exposes the courier-facing views: in-flight orders and the
// delivery report used for settling fees.
type Service struct {
	motoboys interfaces.MotoboyRepository
	orders   interfaces.OrderRepository
	logger   logger.Logger
}

func NewService(motoboys interfaces.MotoboyRepository, orders interfaces.OrderRepository, logger logger.Logger) *Service {
	return &Service{
		motoboys: motoboys,
		orders:   orders,
		logger:   logger,
	}
}

func (s *Service) ListMotoboys(ctx context.Context) ([]*domain.Motoboy, error) {
	return s.motoboys.ListAll(ctx)
}

// ActiveOrders returns the orders currently on the courier's route,
// meaning dispatched or arrived.
func (s *Service) ActiveOrders(ctx context.Context, motoboyID string) ([]*domain.Order, error) {
	if _, err := s.motoboys.FindByID(ctx, motoboyID); err != nil {
		return nil, err
	}
	return s.orders.ListActiveByMotoboy(ctx, motoboyID)
}

// Report sums the courier's delivered orders and their delivery fees over an
// optional date window.
func (s *Service) Report(ctx context.Context, motoboyID string, from, to *time.Time) (*interfaces.MotoboyReport, error) {
	mb, err := s.motoboys.FindByID(ctx, motoboyID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListDeliveredByMotoboy(ctx, motoboyID, from, to)
	if err != nil {
		return nil, err
	}

	totalFees := decimal.Zero
	for _, o := range orders {
		totalFees = totalFees.Add(o.DeliveryFee)
	}

	return &interfaces.MotoboyReport{
		Motoboy:           mb,
		TotalDeliveries:   len(orders),
		TotalDeliveryFees: totalFees.Round(2),
		Orders:            orders,
	}, nil
}
