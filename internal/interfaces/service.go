package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adega-delivery/backend/internal/domain"
)

type OrderService interface {
	CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	OrderItems(ctx context.Context, orderID string) ([]domain.OrderItem, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	ListOrdersByStatus(ctx context.Context, status string) ([]*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	RequestTransition(ctx context.Context, orderID string, target string) (*domain.Order, error)
	AssignCourier(ctx context.Context, orderID, motoboyID string) (*domain.Order, error)
	OverrideDeliveryFee(ctx context.Context, orderID, newFee string) (*domain.Order, error)
}

type DeliveryService interface {
	Calculate(ctx context.Context, req DeliveryRequest) (*domain.DeliveryQuote, error)
}

type MotoboyService interface {
	ListMotoboys(ctx context.Context) ([]*domain.Motoboy, error)
	ActiveOrders(ctx context.Context, motoboyID string) ([]*domain.Order, error)
	Report(ctx context.Context, motoboyID string, from, to *time.Time) (*MotoboyReport, error)
}

type StockService interface {
	Report(ctx context.Context) (*StockReport, error)
	LowStock(ctx context.Context, threshold int) (*LowStockReport, error)
}

// CreateOrderCommand carries the raw order payload. Money fields travel as
// strings and are parsed into decimals by the service, matching the NUMERIC
// columns they are stored in.
type CreateOrderCommand struct {
	UserID           string
	AddressID        *string
	OrderType        string
	Status           string // optional initial status override
	CustomerName     string
	CustomerWhatsapp string
	Subtotal         string
	Discount         string
	DeliveryFee      string
	Items            []CreateOrderItemCommand
}

type CreateOrderItemCommand struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   string
	TotalPrice  string
}

// DeliveryRequest is the customer address input of the fee pipeline. Missing
// parts are backfilled from the postal code when possible.
type DeliveryRequest struct {
	CEP          string
	Street       string
	Number       string
	Neighborhood string
	City         string
	State        string
}

type MotoboyReport struct {
	Motoboy           *domain.Motoboy
	TotalDeliveries   int
	TotalDeliveryFees decimal.Decimal
	Orders            []*domain.Order
}

type StockReportProduct struct {
	ID                   string
	Name                 string
	Stock                int
	CostPrice            decimal.Decimal
	SalePrice            decimal.Decimal
	ProfitPerUnit        decimal.Decimal
	TotalCostValue       decimal.Decimal
	TotalSaleValue       decimal.Decimal
	TotalPotentialProfit decimal.Decimal
	IsActive             bool
}

type StockReport struct {
	TotalProducts     int
	ActiveProducts    int
	TotalUnitsInStock int
	TotalCostValue    decimal.Decimal
	TotalSaleValue    decimal.Decimal
	LowStockCount     int
	OutOfStockCount   int
	Products          []StockReportProduct
}

type LowStockProduct struct {
	ID                    string
	Name                  string
	CurrentStock          int
	SuggestedPurchase     int
	CostPrice             decimal.Decimal
	EstimatedPurchaseCost decimal.Decimal
}

type LowStockReport struct {
	Threshold                  int
	TotalLowStockItems         int
	TotalEstimatedPurchaseCost decimal.Decimal
	Products                   []LowStockProduct
}
