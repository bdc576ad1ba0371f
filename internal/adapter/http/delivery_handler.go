package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/adega-delivery/backend/internal/adapter/logger"
	"github.com/adega-delivery/backend/internal/interfaces"
)

type DeliveryHandler struct {
	service interfaces.DeliveryService
	logger  logger.Logger
}

func NewDeliveryHandler(service interfaces.DeliveryService, logger logger.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		service: service,
		logger:  logger,
	}
}

type CalculateDeliveryRequest struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type CalculateDeliveryResponse struct {
	DistanceKm float64 `json:"distance_km"`
	DeliveryFee string  `json:"delivery_fee"`
	EtaMinutes  int     `json:"eta_minutes"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

func (h *DeliveryHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateDeliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	quote, err := h.service.Calculate(r.Context(), interfaces.DeliveryRequest{
		CEP:          strings.TrimSpace(req.CEP),
		Street:       strings.TrimSpace(req.Street),
		Number:       strings.TrimSpace(req.Number),
		Neighborhood: strings.TrimSpace(req.Neighborhood),
		City:         strings.TrimSpace(req.City),
		State:        strings.TrimSpace(req.State),
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CalculateDeliveryResponse{
		DistanceKm:  quote.DistanceKm,
		DeliveryFee: quote.Fee.StringFixed(2),
		EtaMinutes:  quote.EtaMinutes,
		Lat:         quote.Lat,
		Lng:         quote.Lng,
	})
}
