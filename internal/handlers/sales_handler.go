package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/roomservice/internal/service"
)

// SalesHandler serves the settled order history
type SalesHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(orderService *service.OrderService, log *slog.Logger) *SalesHandler {
	return &SalesHandler{
		orderService: orderService,
		log:          log,
	}
}

// ListSales handles GET /api/sales?period=day|month|year&date=YYYY-MM-DD
func (h *SalesHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	period, date := r.URL.Query().Get("period"), r.URL.Query().Get("date")

	orders, err := h.orderService.QuerySales(r.Context(), period, date)
	if err != nil {
		h.writeQueryError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, orders, h.log)
}

// Summary handles GET /api/sales/summary
func (h *SalesHandler) Summary(w http.ResponseWriter, r *http.Request) {
	period, date := r.URL.Query().Get("period"), r.URL.Query().Get("date")

	summary, err := h.orderService.SalesSummary(r.Context(), period, date)
	if err != nil {
		h.writeQueryError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, summary, h.log)
}

// Clear handles POST /api/sales/clear
func (h *SalesHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.orderService.ClearSales(r.Context()); err != nil {
		h.log.Error("failed to clear sales", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to clear history.", h.log)
		return
	}

	WriteSuccess(w, "", h.log)
}

func (h *SalesHandler) writeQueryError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrDateRequired) {
		WriteError(w, http.StatusBadRequest, "Date is required for this period.", h.log)
		return
	}
	h.log.Error("failed to query sales", "error", err)
	WriteError(w, http.StatusInternalServerError, "Failed to load sales.", h.log)
}
