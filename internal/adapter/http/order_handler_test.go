package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adega-delivery/backend/internal/domain"
	"github.com/adega-delivery/backend/internal/interfaces"
)

type nopLogger struct{}

func (nopLogger) Info(string, string, string, map[string]interface{})         {}
func (nopLogger) Debug(string, string, string, map[string]interface{})        {}
func (nopLogger) Error(string, string, string, map[string]interface{}, error) {}

// stubOrderService returns canned results per method.
type stubOrderService struct {
	order *domain.Order
	err   error
}

func (s *stubOrderService) CreateOrder(context.Context, interfaces.CreateOrderCommand) (*domain.Order, error) {
	return s.order, s.err
}
func (s *stubOrderService) GetOrder(context.Context, string) (*domain.Order, error) {
	return s.order, s.err
}
func (s *stubOrderService) OrderItems(context.Context, string) ([]domain.OrderItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.order.Items, nil
}
func (s *stubOrderService) ListOrders(context.Context) ([]*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Order{s.order}, nil
}
func (s *stubOrderService) ListOrdersByStatus(context.Context, string) ([]*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Order{s.order}, nil
}
func (s *stubOrderService) ListOrdersByUser(context.Context, string) ([]*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*domain.Order{s.order}, nil
}
func (s *stubOrderService) RequestTransition(context.Context, string, string) (*domain.Order, error) {
	return s.order, s.err
}
func (s *stubOrderService) AssignCourier(context.Context, string, string) (*domain.Order, error) {
	return s.order, s.err
}
func (s *stubOrderService) OverrideDeliveryFee(context.Context, string, string) (*domain.Order, error) {
	return s.order, s.err
}

func sampleOrder() *domain.Order {
	fee := decimal.NewFromFloat(6.90)
	o := &domain.Order{
		ID:           "7f3f47d2-3b18-49a4-9ef0-2a1f8b8f27aa",
		UserID:       "user-1",
		Type:         domain.OrderTypeDelivery,
		Status:       domain.StatusPending,
		CustomerName: "Ana",
		Subtotal:     decimal.NewFromFloat(100),
		DeliveryFee:  fee,
		CreatedAt:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	o.RecomputeTotal()
	return o
}

func newMux(service interfaces.OrderService) *http.ServeMux {
	handler := NewOrderHandler(service, nopLogger{})
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders", handler.CreateOrder)
	mux.HandleFunc("GET /orders/{id}", handler.GetOrder)
	mux.HandleFunc("PATCH /orders/{id}/status", handler.UpdateStatus)
	mux.HandleFunc("PATCH /orders/{id}/assign", handler.AssignMotoboy)
	mux.HandleFunc("PATCH /orders/{id}/delivery-fee", handler.AdjustDeliveryFee)
	return mux
}

func TestCreateOrderReturnsCreated(t *testing.T) {
	mux := newMux(&stubOrderService{order: sampleOrder()})

	body := `{
		"user_id": "user-1",
		"order_type": "delivery",
		"customer_name": "Ana",
		"subtotal": "100.00",
		"discount": "0",
		"delivery_fee": "6.90",
		"items": [{"product_id": "p1", "product_name": "Cerveja", "quantity": 2, "unit_price": "50.00", "total_price": "100.00"}]
	}`

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "106.90", resp.Total)
	assert.Equal(t, "6.90", resp.DeliveryFee)
}

func TestCreateOrderValidation(t *testing.T) {
	mux := newMux(&stubOrderService{order: sampleOrder()})

	body := `{"user_id": "", "customer_name": "", "subtotal": "abc", "items": []}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error  string            `json:"error"`
		Errors []ValidationError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Validation failed", resp.Error)

	fields := make(map[string]bool)
	for _, e := range resp.Errors {
		fields[e.Field] = true
	}
	assert.True(t, fields["user_id"])
	assert.True(t, fields["customer_name"])
	assert.True(t, fields["items"])
	assert.True(t, fields["subtotal"])
}

func TestUpdateStatusInvalidTransitionGives422(t *testing.T) {
	mux := newMux(&stubOrderService{err: &domain.InvalidTransitionError{
		Current:   domain.StatusPending,
		Requested: domain.StatusDispatched,
		Allowed:   []domain.Status{domain.StatusAccepted, domain.StatusCancelled},
	}})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/abc/status", strings.NewReader(`{"status":"dispatched"}`)))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_transition", resp.Code)
	assert.Equal(t, "pending", resp.CurrentStatus)
	assert.Equal(t, []string{"accepted", "cancelled"}, resp.AllowedTransitions)
}

func TestAssignMotoboyPreconditionGives409(t *testing.T) {
	mux := newMux(&stubOrderService{err: &domain.PreconditionFailedError{
		Op:       "courier assignment",
		Required: domain.StatusReady,
		Actual:   domain.StatusPending,
	}})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/abc/assign", strings.NewReader(`{"motoboy_id":"m1"}`)))

	require.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "precondition_failed", resp.Code)
	assert.Equal(t, "pending", resp.CurrentStatus)
}

func TestGetOrderNotFoundGives404(t *testing.T) {
	mux := newMux(&stubOrderService{err: domain.ErrOrderNotFound})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdjustDeliveryFeeInvalidGives400(t *testing.T) {
	mux := newMux(&stubOrderService{err: domain.ErrInvalidFee})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/abc/delivery-fee", strings.NewReader(`{"delivery_fee":"-1"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusRequiresBody(t *testing.T) {
	mux := newMux(&stubOrderService{order: sampleOrder()})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/orders/abc/status", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
