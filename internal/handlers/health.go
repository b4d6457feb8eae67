package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/roomservice/internal/documents"
	"github.com/Lixing-Zhang/roomservice/internal/notify"
)

// HealthHandler provides health check endpoint
type HealthHandler struct {
	inspector *documents.Inspector
	hub       *notify.Hub
	logger    *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(inspector *documents.Inspector, hub *notify.Hub, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		inspector: inspector,
		hub:       hub,
		logger:    logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Version     string                 `json:"version"`
	Subscribers int                    `json:"subscribers"`
	Documents   map[string]interface{} `json:"documents"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "healthy"
	if err := h.inspector.Scan(ctx); err != nil {
		h.logger.Warn("document scan failed", "error", err)
		status = "degraded"
	}

	stats := h.inspector.GetStats()
	if unreadable, ok := stats["unreadable"].(int); ok && unreadable > 0 {
		status = "degraded"
	}

	response := HealthResponse{
		Status:      status,
		Timestamp:   time.Now().UTC(),
		Version:     "1.0.0",
		Subscribers: h.hub.SubscriberCount(),
		Documents:   stats,
	}

	WriteJSON(w, http.StatusOK, response, h.logger)
}
