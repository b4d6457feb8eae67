package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Lixing-Zhang/roomservice/pkg/logger"
)

type publishedMsg struct {
	subject string
	data    string
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []publishedMsg
	fail bool
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("nats unavailable")
	}
	f.msgs = append(f.msgs, publishedMsg{subject: subject, data: string(data)})
	return nil
}

func (f *fakePublisher) snapshot() []publishedMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publishedMsg(nil), f.msgs...)
}

func TestNATSBridge_Subject(t *testing.T) {
	tests := []struct {
		prefix string
		topic  Topic
		want   string
	}{
		{prefix: "roomservice", topic: TopicNewOrder, want: "roomservice.new_order"},
		{prefix: "", topic: TopicNewWaiterCall, want: "new_waiter_call"},
	}

	for _, tt := range tests {
		b := newNATSBridge(&fakePublisher{}, tt.prefix, nil)
		if got := b.Subject(tt.topic); got != tt.want {
			t.Errorf("Subject(%s) = %s, want %s", tt.topic, got, tt.want)
		}
	}
}

func TestNATSBridge_ForwardsEvents(t *testing.T) {
	hub := newTestHub(8)
	pub := &fakePublisher{}
	bridge := newNATSBridge(pub, "hotel", logger.New("error"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		bridge.Run(ctx, hub)
	}()

	waitForSubscribers(t, hub, 1)
	hub.Publish(TopicNewOrder, map[string]any{"location": "3", "total": 5})

	deadline := time.Now().Add(2 * time.Second)
	for len(pub.snapshot()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("event was not forwarded")
		}
		time.Sleep(5 * time.Millisecond)
	}

	msg := pub.snapshot()[0]
	if msg.subject != "hotel.new_order" {
		t.Errorf("subject = %s, want hotel.new_order", msg.subject)
	}
	if msg.data != `{"location":"3","total":5}` {
		t.Errorf("data = %s", msg.data)
	}

	cancel()
	<-done
	if hub.SubscriberCount() != 0 {
		t.Error("bridge should unsubscribe when stopped")
	}
}

func TestNATSBridge_PublishFailureIsNotFatal(t *testing.T) {
	pub := &fakePublisher{fail: true}
	bridge := newNATSBridge(pub, "hotel", logger.New("error"))

	bridge.forward(Event{Topic: TopicNewWaiterCall, Data: map[string]string{"table": "2"}})

	if len(pub.snapshot()) != 0 {
		t.Error("nothing should be recorded when publishing fails")
	}
	if err := bridge.Close(); err != nil {
		t.Errorf("Close() without connection error = %v", err)
	}
}
