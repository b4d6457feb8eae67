package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Topic is the name of a real-time event kind
type Topic string

const (
	TopicNewOrder          Topic = "new_order"
	TopicNewServiceRequest Topic = "new_service_request"
	TopicNewWaiterCall     Topic = "new_waiter_call"
)

// AllTopics lists every topic the hub knows about
var AllTopics = []Topic{TopicNewOrder, TopicNewServiceRequest, TopicNewWaiterCall}

// Signals dashboards send to ask for a snapshot of pending state
const (
	SignalKitchenReady     = "kitchen_dashboard_ready"
	SignalMaintenanceReady = "maintenance_dashboard_ready"
)

var (
	ErrUnknownTopic   = errors.New("unknown topic")
	ErrUnknownSignal  = errors.New("unknown signal")
	ErrSubscriberGone = errors.New("subscriber closed")
)

// Event is what clients receive on the push channel
type Event struct {
	Topic Topic `json:"event"`
	Data  any   `json:"data"`
}

// Publisher publishes events to a topic
type Publisher interface {
	Publish(topic Topic, data any)
}

// SnapshotFunc returns the events replayed for a ready signal
type SnapshotFunc func() []Event

// Subscriber is one connected dashboard
type Subscriber struct {
	id     string
	topics map[Topic]bool
	events chan Event
	done   chan struct{}
	once   sync.Once
}

// ID returns the subscriber id
func (s *Subscriber) ID() string {
	return s.id
}

// Events returns the channel events are delivered on
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Done is closed when the subscriber is removed from the hub
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Wants reports whether the subscriber listens to topic.
// A subscriber without topics listens to everything.
func (s *Subscriber) Wants(topic Topic) bool {
	if len(s.topics) == 0 {
		return true
	}
	return s.topics[topic]
}

// offer delivers evt without blocking
func (s *Subscriber) offer(evt Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.events <- evt:
		return true
	default:
		return false
	}
}

// push delivers evt, waiting for queue space until ctx is done
func (s *Subscriber) push(ctx context.Context, evt Event) error {
	select {
	case <-s.done:
		return ErrSubscriberGone
	default:
	}

	select {
	case s.events <- evt:
		return nil
	case <-s.done:
		return ErrSubscriberGone
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Subscriber) close() {
	s.once.Do(func() { close(s.done) })
}

// Hub fans events out to subscribers by topic and serves snapshot replays
type Hub struct {
	subscribers map[string]*Subscriber
	snapshots   map[string]SnapshotFunc
	buffer      int
	logger      *slog.Logger
	mu          sync.RWMutex
}

// NewHub creates a hub whose subscribers queue up to buffer events each
func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		subscribers: make(map[string]*Subscriber),
		snapshots:   make(map[string]SnapshotFunc),
		buffer:      buffer,
		logger:      logger,
	}
}

// Subscribe registers a subscriber for topics, or for every topic when none are given
func (h *Hub) Subscribe(topics ...Topic) *Subscriber {
	sub := &Subscriber{
		id:     uuid.New().String(),
		topics: make(map[Topic]bool, len(topics)),
		events: make(chan Event, h.buffer),
		done:   make(chan struct{}),
	}
	for _, t := range topics {
		sub.topics[t] = true
	}

	h.mu.Lock()
	h.subscribers[sub.id] = sub
	h.mu.Unlock()

	h.logger.Debug("subscriber registered", "subscriber_id", sub.id, "topics", topics)
	return sub
}

// Unsubscribe removes a subscriber and closes its Done channel
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	delete(h.subscribers, id)
	h.mu.Unlock()

	if ok {
		sub.close()
		h.logger.Debug("subscriber removed", "subscriber_id", id)
	}
}

// Publish sends data to every subscriber of topic.
// A subscriber whose queue is full misses the event.
func (h *Hub) Publish(topic Topic, data any) {
	evt := Event{Topic: topic, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, sub := range h.subscribers {
		if !sub.Wants(topic) {
			continue
		}
		if sub.offer(evt) {
			delivered++
			continue
		}
		h.logger.Warn("subscriber queue full, event dropped", "subscriber_id", sub.id, "topic", topic)
	}

	h.logger.Debug("event published", "topic", topic, "delivered", delivered)
}

// OnReady registers the snapshot provider for a ready signal
func (h *Hub) OnReady(signal string, fn SnapshotFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.snapshots[signal] = fn
}

// Snapshot returns the events a ready signal replays
func (h *Hub) Snapshot(signal string) ([]Event, error) {
	h.mu.RLock()
	fn, ok := h.snapshots[signal]
	h.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSignal, signal)
	}
	return fn(), nil
}

// Replay delivers the snapshot for signal to sub only.
// It returns the number of events delivered.
func (h *Hub) Replay(ctx context.Context, sub *Subscriber, signal string) (int, error) {
	events, err := h.Snapshot(signal)
	if err != nil {
		return 0, err
	}

	for i, evt := range events {
		if err := sub.push(ctx, evt); err != nil {
			return i, fmt.Errorf("replay %s interrupted: %w", signal, err)
		}
	}

	h.logger.Debug("snapshot replayed", "subscriber_id", sub.id, "signal", signal, "events", len(events))
	return len(events), nil
}

// Close removes every subscriber, ending their streams
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = make(map[string]*Subscriber)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
	h.logger.Info("notification hub closed", "subscribers", len(subs))
}

// SubscriberCount returns the number of connected subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers)
}

// ParseTopics parses a comma separated topic list. An empty list means all topics.
func ParseTopics(raw string) ([]Topic, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	known := make(map[Topic]bool, len(AllTopics))
	for _, t := range AllTopics {
		known[t] = true
	}

	var topics []Topic
	for _, part := range strings.Split(raw, ",") {
		t := Topic(strings.TrimSpace(part))
		if t == "" {
			continue
		}
		if !known[t] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTopic, t)
		}
		topics = append(topics, t)
	}
	return topics, nil
}
