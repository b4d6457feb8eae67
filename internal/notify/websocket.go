package notify

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// clientMessage is a frame sent by a dashboard
type clientMessage struct {
	Event string `json:"event"`
}

// WSHandler serves the WebSocket push channel at /ws?topics=a,b
type WSHandler struct {
	hub      *Hub
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a WebSocket handler for hub
func NewWSHandler(hub *Hub, logger *slog.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the connection and streams events until either side closes
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	topics, err := ParseTopics(r.URL.Query().Get("topics"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sub := h.hub.Subscribe(topics...)
	defer h.hub.Unsubscribe(sub.ID())

	h.logger.Info("websocket client connected",
		"subscriber_id", sub.ID(),
		"remote_addr", r.RemoteAddr,
		"topics", topics,
	)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writeLoop(ctx, conn, sub)
		cancel()
		// unblock the reader
		_ = conn.Close()
	}()

	h.readLoop(ctx, conn, sub)

	cancel()
	<-writerDone
	h.logger.Info("websocket client disconnected", "subscriber_id", sub.ID())
}

// readLoop handles ready signals from the dashboard
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, sub *Subscriber) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", "subscriber_id", sub.ID(), "error", err)
			}
			return
		}

		signal := parseSignal(data)
		if signal == "" {
			continue
		}

		n, err := h.hub.Replay(ctx, sub, signal)
		if err != nil {
			if errors.Is(err, ErrUnknownSignal) {
				h.logger.Warn("unknown dashboard signal", "subscriber_id", sub.ID(), "signal", signal)
				continue
			}
			h.logger.Warn("snapshot replay failed", "subscriber_id", sub.ID(), "signal", signal, "error", err)
			return
		}
		h.logger.Info("snapshot replayed", "subscriber_id", sub.ID(), "signal", signal, "events", n)
	}
}

// writeLoop is the only goroutine writing to conn
func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, sub *Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return

		case <-sub.Done():
			return

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}

		case evt := <-sub.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(evt); err != nil {
				h.logger.Warn("websocket write error", "subscriber_id", sub.ID(), "error", err)
				return
			}
		}
	}
}

// parseSignal accepts {"event": "..."} frames or a bare signal name
func parseSignal(data []byte) string {
	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err == nil {
		return strings.TrimSpace(msg.Event)
	}

	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		return strings.TrimSpace(name)
	}

	return strings.TrimSpace(string(data))
}
