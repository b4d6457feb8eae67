package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// SSEHandler serves Server-Sent Events at /events?topics=a,b&ready=signal
type SSEHandler struct {
	hub       *Hub
	logger    *slog.Logger
	keepalive time.Duration
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(hub *Hub, logger *slog.Logger) *SSEHandler {
	return &SSEHandler{
		hub:       hub,
		logger:    logger,
		keepalive: 30 * time.Second,
	}
}

// ServeHTTP implements http.Handler for the SSE endpoint
func (h *SSEHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	topics, err := ParseTopics(r.URL.Query().Get("topics"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// subscribe before taking the snapshot so events published in between
	// are queued for this subscriber
	sub := h.hub.Subscribe(topics...)
	defer h.hub.Unsubscribe(sub.ID())

	var replay []Event
	if signal := r.URL.Query().Get("ready"); signal != "" {
		replay, err = h.hub.Snapshot(signal)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	h.logger.Info("new SSE connection", "subscriber_id", sub.ID(), "topics", topics)

	fmt.Fprintf(w, ": connected\n\n")
	// reconnection delay hint in milliseconds
	fmt.Fprintf(w, "retry: 2000\n\n")
	flusher.Flush()

	for _, evt := range replay {
		if err := writeSSEEvent(w, evt); err != nil {
			h.logger.Error("failed to write replay event", "subscriber_id", sub.ID(), "error", err)
			return
		}
	}
	flusher.Flush()

	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Info("SSE client disconnected", "subscriber_id", sub.ID())
			return

		case <-sub.Done():
			return

		case <-ticker.C:
			fmt.Fprintf(w, ": keepalive\n\n")
			flusher.Flush()

		case evt := <-sub.Events():
			if err := writeSSEEvent(w, evt); err != nil {
				h.logger.Error("failed to write event", "subscriber_id", sub.ID(), "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

// writeSSEEvent writes one event with its JSON payload on a single data line
func writeSSEEvent(w http.ResponseWriter, evt Event) error {
	payload, err := json.Marshal(evt.Data)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", evt.Topic, err)
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Topic, payload); err != nil {
		return err
	}
	return nil
}
