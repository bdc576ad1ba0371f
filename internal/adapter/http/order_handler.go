package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adega-delivery/backend/internal/adapter/logger"
	"github.com/adega-delivery/backend/internal/domain"
	"github.com/adega-delivery/backend/internal/interfaces"
)

type OrderHandler struct {
	service interfaces.OrderService
	logger  logger.Logger
}

func NewOrderHandler(service interfaces.OrderService, logger logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger,
	}
}

type CreateOrderRequest struct {
	UserID           string             `json:"user_id"`
	AddressID        *string            `json:"address_id,omitempty"`
	OrderType        string             `json:"order_type"`
	Status           string             `json:"status,omitempty"`
	CustomerName     string             `json:"customer_name"`
	CustomerWhatsapp string             `json:"customer_whatsapp"`
	Subtotal         string             `json:"subtotal"`
	Discount         string             `json:"discount"`
	DeliveryFee      string             `json:"delivery_fee"`
	Items            []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type AssignMotoboyRequest struct {
	MotoboyID string `json:"motoboy_id"`
}

type AdjustDeliveryFeeRequest struct {
	DeliveryFee string `json:"delivery_fee"`
}

type OrderResponse struct {
	ID                  string              `json:"id"`
	UserID              string              `json:"user_id"`
	AddressID           *string             `json:"address_id,omitempty"`
	OrderType           string              `json:"order_type"`
	Status              string              `json:"status"`
	CustomerName        string              `json:"customer_name"`
	CustomerWhatsapp    string              `json:"customer_whatsapp"`
	Items               []OrderItemResponse `json:"items,omitempty"`
	Subtotal            string              `json:"subtotal"`
	Discount            string              `json:"discount"`
	DeliveryFee         string              `json:"delivery_fee"`
	OriginalDeliveryFee *string             `json:"original_delivery_fee,omitempty"`
	DeliveryFeeAdjusted bool                `json:"delivery_fee_adjusted"`
	Total               string              `json:"total"`
	MotoboyID           *string             `json:"motoboy_id,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	AcceptedAt          *time.Time          `json:"accepted_at,omitempty"`
	PreparingAt         *time.Time          `json:"preparing_at,omitempty"`
	ReadyAt             *time.Time          `json:"ready_at,omitempty"`
	DispatchedAt        *time.Time          `json:"dispatched_at,omitempty"`
	ArrivedAt           *time.Time          `json:"arrived_at,omitempty"`
	DeliveredAt         *time.Time          `json:"delivered_at,omitempty"`
}

type OrderItemResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TotalPrice  string `json:"total_price"`
}

func toOrderResponse(o *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:                  o.ID,
		UserID:              o.UserID,
		AddressID:           o.AddressID,
		OrderType:           string(o.Type),
		Status:              string(o.Status),
		CustomerName:        o.CustomerName,
		CustomerWhatsapp:    o.CustomerWhatsapp,
		Subtotal:            o.Subtotal.StringFixed(2),
		Discount:            o.Discount.StringFixed(2),
		DeliveryFee:         o.DeliveryFee.StringFixed(2),
		DeliveryFeeAdjusted: o.DeliveryFeeAdjusted,
		Total:               o.Total.StringFixed(2),
		MotoboyID:           o.MotoboyID,
		CreatedAt:           o.CreatedAt,
		AcceptedAt:          o.AcceptedAt,
		PreparingAt:         o.PreparingAt,
		ReadyAt:             o.ReadyAt,
		DispatchedAt:        o.DispatchedAt,
		ArrivedAt:           o.ArrivedAt,
		DeliveredAt:         o.DeliveredAt,
	}
	if o.OriginalDeliveryFee != nil {
		s := o.OriginalDeliveryFee.StringFixed(2)
		resp.OriginalDeliveryFee = &s
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, toOrderItemResponse(item))
	}
	return resp
}

func toOrderItemResponse(item domain.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:          item.ID,
		ProductID:   item.ProductID,
		ProductName: item.ProductName,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice.StringFixed(2),
		TotalPrice:  item.TotalPrice.StringFixed(2),
	}
}

func toOrderListResponse(orders []*domain.Order) []OrderResponse {
	result := make([]OrderResponse, len(orders))
	for i, o := range orders {
		result[i] = toOrderResponse(o)
	}
	return result
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if validationErrors := validateCreateOrderRequest(req); len(validationErrors) > 0 {
		h.logger.Debug("validation_failed", "Order validation failed", "", map[string]interface{}{
			"errors": validationErrors,
		})
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "Validation failed",
			"errors": validationErrors,
		})
		return
	}

	cmd := interfaces.CreateOrderCommand{
		UserID:           strings.TrimSpace(req.UserID),
		AddressID:        req.AddressID,
		OrderType:        req.OrderType,
		Status:           req.Status,
		CustomerName:     strings.TrimSpace(req.CustomerName),
		CustomerWhatsapp: strings.TrimSpace(req.CustomerWhatsapp),
		Subtotal:         req.Subtotal,
		Discount:         req.Discount,
		DeliveryFee:      req.DeliveryFee,
		Items:            convertItemsToCommand(req.Items),
	}

	order, err := h.service.CreateOrder(r.Context(), cmd)
	if err != nil {
		h.logger.Error("order_creation_failed", "Failed to create order", "", nil, err)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toOrderResponse(order))
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func validateCreateOrderRequest(req CreateOrderRequest) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(req.UserID) == "" {
		errs = append(errs, ValidationError{Field: "user_id", Message: "user id is required"})
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		errs = append(errs, ValidationError{Field: "customer_name", Message: "customer name is required"})
	}
	if len(req.Items) < 1 {
		errs = append(errs, ValidationError{Field: "items", Message: "order must contain at least 1 item"})
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			errs = append(errs, ValidationError{Field: itemField(i, "product_id"), Message: "product id is required"})
		}
		if item.Quantity < 1 {
			errs = append(errs, ValidationError{Field: itemField(i, "quantity"), Message: "item quantity must be at least 1"})
		}
		if _, err := decimal.NewFromString(item.UnitPrice); err != nil {
			errs = append(errs, ValidationError{Field: itemField(i, "unit_price"), Message: "item unit price must be a decimal string"})
		}
	}
	for _, f := range []struct{ name, value string }{
		{"subtotal", req.Subtotal},
		{"discount", req.Discount},
		{"delivery_fee", req.DeliveryFee},
	} {
		if f.value == "" {
			continue
		}
		if _, err := decimal.NewFromString(f.value); err != nil {
			errs = append(errs, ValidationError{Field: f.name, Message: f.name + " must be a decimal string"})
		}
	}

	return errs
}

func itemField(i int, name string) string {
	return fmt.Sprintf("items[%d].%s", i, name)
}

func convertItemsToCommand(items []OrderItemRequest) []interfaces.CreateOrderItemCommand {
	result := make([]interfaces.CreateOrderItemCommand, len(items))
	for i, item := range items {
		result[i] = interfaces.CreateOrderItemCommand{
			ProductID:   strings.TrimSpace(item.ProductID),
			ProductName: strings.TrimSpace(item.ProductName),
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		}
	}
	return result
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("order_list_failed", "Failed to list orders", "", nil, err)
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderListResponse(orders))
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) OrderItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.OrderItems(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	result := make([]OrderItemResponse, len(items))
	for i, item := range items {
		result[i] = toOrderItemResponse(item)
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *OrderHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrdersByStatus(r.Context(), r.PathValue("status"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderListResponse(orders))
}

func (h *OrderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrdersByUser(r.Context(), r.PathValue("userId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderListResponse(orders))
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status == "" {
		respondError(w, http.StatusBadRequest, "status is required")
		return
	}

	order, err := h.service.RequestTransition(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) AssignMotoboy(w http.ResponseWriter, r *http.Request) {
	var req AssignMotoboyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.MotoboyID == "" {
		respondError(w, http.StatusBadRequest, "motoboy_id is required")
		return
	}

	order, err := h.service.AssignCourier(r.Context(), r.PathValue("id"), req.MotoboyID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) AdjustDeliveryFee(w http.ResponseWriter, r *http.Request) {
	var req AdjustDeliveryFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.DeliveryFee == "" {
		respondError(w, http.StatusBadRequest, "delivery_fee is required")
		return
	}

	order, err := h.service.OverrideDeliveryFee(r.Context(), r.PathValue("id"), req.DeliveryFee)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(order))
}
