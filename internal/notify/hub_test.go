package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Lixing-Zhang/roomservice/pkg/logger"
)

func newTestHub(buffer int) *Hub {
	return NewHub(buffer, logger.New("error"))
}

func receive(t *testing.T, sub *Subscriber) Event {
	t.Helper()
	select {
	case evt := <-sub.Events():
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertEmpty(t *testing.T, sub *Subscriber) {
	t.Helper()
	select {
	case evt := <-sub.Events():
		t.Fatalf("unexpected event %+v", evt)
	default:
	}
}

func TestHub_PublishRoutesByTopic(t *testing.T) {
	hub := newTestHub(8)

	kitchen := hub.Subscribe(TopicNewOrder)
	maintenance := hub.Subscribe(TopicNewServiceRequest)
	firehose := hub.Subscribe()

	hub.Publish(TopicNewOrder, map[string]string{"location": "3"})

	if evt := receive(t, kitchen); evt.Topic != TopicNewOrder {
		t.Errorf("kitchen got topic %s, want %s", evt.Topic, TopicNewOrder)
	}
	if evt := receive(t, firehose); evt.Topic != TopicNewOrder {
		t.Errorf("firehose got topic %s, want %s", evt.Topic, TopicNewOrder)
	}
	assertEmpty(t, maintenance)

	hub.Publish(TopicNewWaiterCall, map[string]string{"table": "4"})
	assertEmpty(t, kitchen)
	assertEmpty(t, maintenance)
	if evt := receive(t, firehose); evt.Topic != TopicNewWaiterCall {
		t.Errorf("firehose got topic %s, want %s", evt.Topic, TopicNewWaiterCall)
	}
}

func TestHub_FullQueueDropsEvent(t *testing.T) {
	hub := newTestHub(1)
	sub := hub.Subscribe()

	hub.Publish(TopicNewOrder, 1)
	hub.Publish(TopicNewOrder, 2)

	if evt := receive(t, sub); evt.Data != 1 {
		t.Errorf("first event data = %v, want 1", evt.Data)
	}
	assertEmpty(t, sub)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := newTestHub(4)
	sub := hub.Subscribe()

	if hub.SubscriberCount() != 1 {
		t.Fatalf("subscriber count = %d, want 1", hub.SubscriberCount())
	}

	hub.Unsubscribe(sub.ID())
	hub.Unsubscribe(sub.ID())

	if hub.SubscriberCount() != 0 {
		t.Errorf("subscriber count = %d, want 0", hub.SubscriberCount())
	}

	select {
	case <-sub.Done():
	default:
		t.Error("Done() should be closed after unsubscribe")
	}

	hub.Publish(TopicNewOrder, "ignored")
	assertEmpty(t, sub)
}

func TestHub_CloseEndsAllSubscribers(t *testing.T) {
	hub := newTestHub(4)
	subs := []*Subscriber{hub.Subscribe(), hub.Subscribe(TopicNewOrder)}

	hub.Close()

	if hub.SubscriberCount() != 0 {
		t.Errorf("subscriber count = %d, want 0", hub.SubscriberCount())
	}
	for _, sub := range subs {
		select {
		case <-sub.Done():
		default:
			t.Errorf("subscriber %s still open after Close()", sub.ID())
		}
	}

	// unsubscribing after close is harmless
	hub.Unsubscribe(subs[0].ID())
}

func TestHub_ReplayTargetsOneSubscriber(t *testing.T) {
	hub := newTestHub(8)
	hub.OnReady(SignalKitchenReady, func() []Event {
		return []Event{
			{Topic: TopicNewOrder, Data: "a"},
			{Topic: TopicNewOrder, Data: "b"},
		}
	})

	requester := hub.Subscribe(TopicNewOrder)
	bystander := hub.Subscribe(TopicNewOrder)

	n, err := hub.Replay(context.Background(), requester, SignalKitchenReady)
	if err != nil {
		t.Fatalf("Replay() unexpected error = %v", err)
	}
	if n != 2 {
		t.Errorf("Replay() delivered %d events, want 2", n)
	}

	if evt := receive(t, requester); evt.Data != "a" {
		t.Errorf("first replayed event = %v, want a", evt.Data)
	}
	if evt := receive(t, requester); evt.Data != "b" {
		t.Errorf("second replayed event = %v, want b", evt.Data)
	}
	assertEmpty(t, bystander)
}

func TestHub_ReplayUnknownSignal(t *testing.T) {
	hub := newTestHub(1)
	sub := hub.Subscribe()

	_, err := hub.Replay(context.Background(), sub, "bar_dashboard_ready")
	if !errors.Is(err, ErrUnknownSignal) {
		t.Errorf("Replay() error = %v, want ErrUnknownSignal", err)
	}
}

func TestHub_ReplayStopsWhenContextDone(t *testing.T) {
	hub := newTestHub(1)
	hub.OnReady(SignalMaintenanceReady, func() []Event {
		return []Event{{Topic: TopicNewServiceRequest}, {Topic: TopicNewServiceRequest}}
	})
	sub := hub.Subscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	n, err := hub.Replay(ctx, sub, SignalMaintenanceReady)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Replay() error = %v, want deadline exceeded", err)
	}
	if n != 1 {
		t.Errorf("Replay() delivered %d events before blocking, want 1", n)
	}
}

func TestParseTopics(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []Topic
		wantErr bool
	}{
		{name: "empty means all", raw: "", want: nil},
		{name: "single", raw: "new_order", want: []Topic{TopicNewOrder}},
		{name: "spaces and blanks", raw: " new_order, ,new_waiter_call ", want: []Topic{TopicNewOrder, TopicNewWaiterCall}},
		{name: "unknown", raw: "new_order,refunds", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTopics(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTopics() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownTopic) {
					t.Errorf("ParseTopics() error = %v, want ErrUnknownTopic", err)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseTopics() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseTopics()[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}
