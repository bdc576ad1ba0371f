package http

import (
	"net/http"
	"strconv"

	"github.com/adega-delivery/backend/internal/adapter/logger"
	"github.com/adega-delivery/backend/internal/interfaces"
)

type StockHandler struct {
	service interfaces.StockService
	logger  logger.Logger
}

func NewStockHandler(service interfaces.StockService, logger logger.Logger) *StockHandler {
	return &StockHandler{
		service: service,
		logger:  logger,
	}
}

type StockReportProductResponse struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	Stock                int    `json:"stock"`
	CostPrice            string `json:"cost_price"`
	SalePrice            string `json:"sale_price"`
	ProfitPerUnit        string `json:"profit_per_unit"`
	TotalCostValue       string `json:"total_cost_value"`
	TotalSaleValue       string `json:"total_sale_value"`
	TotalPotentialProfit string `json:"total_potential_profit"`
	IsActive             bool   `json:"is_active"`
}

type StockReportResponse struct {
	TotalProducts     int                          `json:"total_products"`
	ActiveProducts    int                          `json:"active_products"`
	TotalUnitsInStock int                          `json:"total_units_in_stock"`
	TotalCostValue    string                       `json:"total_cost_value"`
	TotalSaleValue    string                       `json:"total_sale_value"`
	LowStockCount     int                          `json:"low_stock_count"`
	OutOfStockCount   int                          `json:"out_of_stock_count"`
	Products          []StockReportProductResponse `json:"products"`
}

type LowStockProductResponse struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	CurrentStock          int    `json:"current_stock"`
	SuggestedPurchase     int    `json:"suggested_purchase"`
	CostPrice             string `json:"cost_price"`
	EstimatedPurchaseCost string `json:"estimated_purchase_cost"`
}

type LowStockReportResponse struct {
	Threshold                  int                       `json:"threshold"`
	TotalLowStockItems         int                       `json:"total_low_stock_items"`
	TotalEstimatedPurchaseCost string                    `json:"total_estimated_purchase_cost"`
	Products                   []LowStockProductResponse `json:"products"`
}

func (h *StockHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Report(r.Context())
	if err != nil {
		h.logger.Error("stock_report_failed", "Failed to build stock report", "", nil, err)
		respondServiceError(w, err)
		return
	}

	resp := StockReportResponse{
		TotalProducts:     report.TotalProducts,
		ActiveProducts:    report.ActiveProducts,
		TotalUnitsInStock: report.TotalUnitsInStock,
		TotalCostValue:    report.TotalCostValue.StringFixed(2),
		TotalSaleValue:    report.TotalSaleValue.StringFixed(2),
		LowStockCount:     report.LowStockCount,
		OutOfStockCount:   report.OutOfStockCount,
		Products:          make([]StockReportProductResponse, len(report.Products)),
	}
	for i, p := range report.Products {
		resp.Products[i] = StockReportProductResponse{
			ID:                   p.ID,
			Name:                 p.Name,
			Stock:                p.Stock,
			CostPrice:            p.CostPrice.StringFixed(2),
			SalePrice:            p.SalePrice.StringFixed(2),
			ProfitPerUnit:        p.ProfitPerUnit.StringFixed(2),
			TotalCostValue:       p.TotalCostValue.StringFixed(2),
			TotalSaleValue:       p.TotalSaleValue.StringFixed(2),
			TotalPotentialProfit: p.TotalPotentialProfit.StringFixed(2),
			IsActive:             p.IsActive,
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *StockHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	threshold := 0
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "threshold must be an integer")
			return
		}
		threshold = parsed
	}

	report, err := h.service.LowStock(r.Context(), threshold)
	if err != nil {
		h.logger.Error("low_stock_report_failed", "Failed to build low stock report", "", nil, err)
		respondServiceError(w, err)
		return
	}

	resp := LowStockReportResponse{
		Threshold:                  report.Threshold,
		TotalLowStockItems:         report.TotalLowStockItems,
		TotalEstimatedPurchaseCost: report.TotalEstimatedPurchaseCost.StringFixed(2),
		Products:                   make([]LowStockProductResponse, len(report.Products)),
	}
	for i, p := range report.Products {
		resp.Products[i] = LowStockProductResponse{
			ID:                    p.ID,
			Name:                  p.Name,
			CurrentStock:          p.CurrentStock,
			SuggestedPurchase:     p.SuggestedPurchase,
			CostPrice:             p.CostPrice.StringFixed(2),
			EstimatedPurchaseCost: p.EstimatedPurchaseCost.StringFixed(2),
		}
	}

	respondJSON(w, http.StatusOK, resp)
}
