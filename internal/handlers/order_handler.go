package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/roomservice/internal/models"
	"github.com/Lixing-Zhang/roomservice/internal/service"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
	log          *slog.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// PlaceOrder handles POST /place-order
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderRequest

	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Warn("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body.", h.log)
		return
	}

	order, err := h.orderService.PlaceOrder(r.Context(), req)
	if err != nil {
		var pending *service.PendingOrderError
		switch {
		case errors.As(err, &pending):
			h.log.Info("order rejected, location busy", "location", pending.Location)
			WriteError(w, http.StatusTooManyRequests, pending.Error(), h.log)
		case errors.Is(err, service.ErrLocationRequired):
			WriteError(w, http.StatusBadRequest, "Location is required.", h.log)
		case errors.Is(err, service.ErrEmptyOrder):
			WriteError(w, http.StatusBadRequest, "Order must contain at least one item.", h.log)
		case errors.Is(err, service.ErrInvalidQuantity):
			WriteError(w, http.StatusBadRequest, "Quantity must be at least 1.", h.log)
		default:
			h.log.Error("failed to place order", "error", err)
			WriteError(w, http.StatusInternalServerError, "Server error.", h.log)
		}
		return
	}

	WriteSuccess(w, "Order sent!", h.log)
	h.log.Debug("order response sent", "order_id", order.ID)
}

// AcknowledgeOrder handles POST /acknowledge-order
func (h *OrderHandler) AcknowledgeOrder(w http.ResponseWriter, r *http.Request) {
	var req models.AcknowledgeOrderRequest

	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Warn("failed to decode acknowledge request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body.", h.log)
		return
	}

	if _, err := h.orderService.AcknowledgeOrder(r.Context(), req.Location.String()); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			WriteError(w, http.StatusNotFound, "No pending order for this location.", h.log)
			return
		}
		h.log.Error("failed to acknowledge order", "location", req.Location, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to save order.", h.log)
		return
	}

	WriteSuccess(w, "", h.log)
}

// PendingOrders handles GET /api/orders/pending
func (h *OrderHandler) PendingOrders(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.orderService.PendingOrders(), h.log)
}
