package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

// subjectPublisher is satisfied by *nats.Conn
type subjectPublisher interface {
	Publish(subject string, data []byte) error
}

// NATSBridge forwards hub events to NATS subjects named <prefix>.<topic>
type NATSBridge struct {
	conn   *nats.Conn
	pub    subjectPublisher
	prefix string
	logger *slog.Logger
}

// NewNATSBridge connects to the NATS server at url
func NewNATSBridge(url, prefix string, logger *slog.Logger) (*NATSBridge, error) {
	conn, err := nats.Connect(url, nats.Name("roomservice"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	b := newNATSBridge(conn, prefix, logger)
	b.conn = conn
	return b, nil
}

func newNATSBridge(pub subjectPublisher, prefix string, logger *slog.Logger) *NATSBridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSBridge{
		pub:    pub,
		prefix: prefix,
		logger: logger,
	}
}

// Subject returns the NATS subject for topic
func (b *NATSBridge) Subject(topic Topic) string {
	if b.prefix == "" {
		return string(topic)
	}
	return b.prefix + "." + string(topic)
}

// Run subscribes to every topic on hub and forwards events until ctx is done
func (b *NATSBridge) Run(ctx context.Context, hub *Hub) {
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub.ID())

	b.logger.Info("nats bridge started", "prefix", b.prefix)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done():
			return
		case evt := <-sub.Events():
			b.forward(evt)
		}
	}
}

func (b *NATSBridge) forward(evt Event) {
	payload, err := json.Marshal(evt.Data)
	if err != nil {
		b.logger.Error("failed to encode event for nats", "topic", evt.Topic, "error", err)
		return
	}

	subject := b.Subject(evt.Topic)
	if err := b.pub.Publish(subject, payload); err != nil {
		b.logger.Warn("failed to publish event to nats", "subject", subject, "error", err)
		return
	}
	b.logger.Debug("event forwarded to nats", "subject", subject)
}

// Close drains the NATS connection
func (b *NATSBridge) Close() error {
	if b.conn == nil {
		return nil
	}
	return b.conn.Drain()
}
