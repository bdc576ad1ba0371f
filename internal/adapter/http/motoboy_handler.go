package http

import (
	"net/http"
	"time"

	"github.com/adega-delivery/backend/internal/adapter/logger"
	"github.com/adega-delivery/backend/internal/domain"
	"github.com/adega-delivery/backend/internal/interfaces"
)

type MotoboyHandler struct {
	service interfaces.MotoboyService
	logger  logger.Logger
}

func NewMotoboyHandler(service interfaces.MotoboyService, logger logger.Logger) *MotoboyHandler {
	return &MotoboyHandler{
		service: service,
		logger:  logger,
	}
}

type MotoboyResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Whatsapp string `json:"whatsapp"`
	IsActive bool   `json:"is_active"`
}

type MotoboyReportResponse struct {
	Motoboy           MotoboyResponse `json:"motoboy"`
	TotalDeliveries   int             `json:"total_deliveries"`
	TotalDeliveryFees string          `json:"total_delivery_fees"`
	Orders            []OrderResponse `json:"orders"`
}

func toMotoboyResponse(m *domain.Motoboy) MotoboyResponse {
	return MotoboyResponse{
		ID:       m.ID,
		Name:     m.Name,
		Whatsapp: m.Whatsapp,
		IsActive: m.IsActive,
	}
}

func (h *MotoboyHandler) List(w http.ResponseWriter, r *http.Request) {
	motoboys, err := h.service.ListMotoboys(r.Context())
	if err != nil {
		h.logger.Error("motoboy_list_failed", "Failed to list motoboys", "", nil, err)
		respondServiceError(w, err)
		return
	}

	result := make([]MotoboyResponse, len(motoboys))
	for i, m := range motoboys {
		result[i] = toMotoboyResponse(m)
	}
	respondJSON(w, http.StatusOK, result)
}

func (h *MotoboyHandler) ActiveOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ActiveOrders(r.Context(), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderListResponse(orders))
}

func (h *MotoboyHandler) Report(w http.ResponseWriter, r *http.Request) {
	from, err := parseDateParam(r, "from")
	if err != nil {
		respondError(w, http.StatusBadRequest, "from must be a date in YYYY-MM-DD format")
		return
	}
	to, err := parseDateParam(r, "to")
	if err != nil {
		respondError(w, http.StatusBadRequest, "to must be a date in YYYY-MM-DD format")
		return
	}

	report, err := h.service.Report(r.Context(), r.PathValue("id"), from, to)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, MotoboyReportResponse{
		Motoboy:           toMotoboyResponse(report.Motoboy),
		TotalDeliveries:   report.TotalDeliveries,
		TotalDeliveryFees: report.TotalDeliveryFees.StringFixed(2),
		Orders:            toOrderListResponse(report.Orders),
	})
}

// parseDateParam reads an optional YYYY-MM-DD query parameter. An upper bound
// is pushed to the end of that day so the range is inclusive.
func parseDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if name == "to" {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
