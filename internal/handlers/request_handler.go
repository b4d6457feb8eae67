package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/roomservice/internal/models"
	"github.com/Lixing-Zhang/roomservice/internal/service"
)

// RequestHandler handles guest service requests and waiter calls
type RequestHandler struct {
	requestService *service.RequestService
	log            *slog.Logger
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService *service.RequestService, log *slog.Logger) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		log:            log,
	}
}

// SubmitRequest handles POST /service-request
func (h *RequestHandler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var in models.ServiceRequestInput

	if err := decodeJSON(w, r, &in); err != nil {
		h.log.Warn("failed to decode service request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body.", h.log)
		return
	}

	if _, err := h.requestService.SubmitRequest(r.Context(), in); err != nil {
		switch {
		case errors.Is(err, service.ErrRoomRequired):
			WriteError(w, http.StatusBadRequest, "Room is required.", h.log)
		case errors.Is(err, service.ErrRequestRequired):
			WriteError(w, http.StatusBadRequest, "Request is required.", h.log)
		default:
			h.log.Error("failed to submit service request", "error", err)
			WriteError(w, http.StatusInternalServerError, "Server error.", h.log)
		}
		return
	}

	WriteSuccess(w, "", h.log)
}

// AcknowledgeRequest handles POST /acknowledge-service.
// Unknown ids are acknowledged as well.
func (h *RequestHandler) AcknowledgeRequest(w http.ResponseWriter, r *http.Request) {
	var req models.AcknowledgeServiceRequest

	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Warn("failed to decode acknowledge request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body.", h.log)
		return
	}

	h.requestService.AcknowledgeRequest(r.Context(), req.ID.String())
	WriteSuccess(w, "", h.log)
}

// CallWaiter handles POST /call-waiter
func (h *RequestHandler) CallWaiter(w http.ResponseWriter, r *http.Request) {
	var req models.WaiterCallRequest

	if err := decodeJSON(w, r, &req); err != nil {
		h.log.Warn("failed to decode waiter call", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body.", h.log)
		return
	}

	if _, err := h.requestService.CallWaiter(r.Context(), req.Table.String()); err != nil {
		if errors.Is(err, service.ErrTableRequired) {
			WriteError(w, http.StatusBadRequest, "Table is required.", h.log)
			return
		}
		h.log.Error("failed to call waiter", "error", err)
		WriteError(w, http.StatusInternalServerError, "Server error.", h.log)
		return
	}

	WriteSuccess(w, "", h.log)
}

// PendingRequests handles GET /api/service-requests/pending
func (h *RequestHandler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.requestService.PendingRequests(), h.log)
}
