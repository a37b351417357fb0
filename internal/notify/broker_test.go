package notify

import (
	"context"
	"testing"
	"time"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/constants"
)

func TestMemoryBrokerDeliversToRestaurantSubscribers(t *testing.T) {
	broker := NewMemoryBroker()
	ctx := context.Background()
	events, cancel, err := broker.Subscribe(ctx, "rest-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer cancel()

	_ = broker.Publish(ctx, Event{Type: constants.EventOrderCreated, RestaurantID: "rest-2", OrderID: "ord-x"})
	_ = broker.Publish(ctx, Event{Type: constants.EventOrderCreated, RestaurantID: "rest-1", OrderID: "ord-1"})

	select {
	case event := <-events:
		if event.OrderID != "ord-1" {
			t.Fatalf("want ord-1 got %s", event.OrderID)
		}
		if event.OccurredAt.IsZero() {
			t.Fatalf("occurred_at should be stamped")
		}
	case <-time.After(time.Second):
		t.Fatalf("event not delivered")
	}
	select {
	case event := <-events:
		t.Fatalf("unexpected extra event %+v", event)
	default:
	}
}

func TestMemoryBrokerCancelClosesChannel(t *testing.T) {
	broker := NewMemoryBroker()
	events, cancel, _ := broker.Subscribe(context.Background(), "rest-1")
	cancel()
	cancel()
	if _, ok := <-events; ok {
		t.Fatalf("channel should be closed after cancel")
	}
	if err := broker.Publish(context.Background(), Event{RestaurantID: "rest-1"}); err != nil {
		t.Fatalf("publish after cancel failed: %v", err)
	}
}

func TestMemoryBrokerContextCancelUnsubscribes(t *testing.T) {
	broker := NewMemoryBroker()
	ctx, cancel := context.WithCancel(context.Background())
	events, _, _ := broker.Subscribe(ctx, "rest-1")
	cancel()
	select {
	case _, ok := <-events:
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("subscription not closed after context cancel")
	}
}

func TestNewSelectsDriver(t *testing.T) {
	broker, err := New(config.NotifyConfig{Driver: "memory"}, nil)
	if err != nil {
		t.Fatalf("memory driver failed: %v", err)
	}
	if _, ok := broker.(*MemoryBroker); !ok {
		t.Fatalf("want MemoryBroker got %T", broker)
	}
	if _, err := New(config.NotifyConfig{Driver: "redis"}, nil); err == nil {
		t.Fatalf("redis driver without client should fail")
	}
	if _, err := New(config.NotifyConfig{Driver: "amqp"}, nil); err == nil {
		t.Fatalf("amqp driver without url should fail")
	}
}

func TestEventCodec(t *testing.T) {
	raw, err := encodeEvent(Event{Type: constants.EventOrderCreated, RestaurantID: "rest-1", OrderID: "ord-1", Total: "39.50"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	event, err := decodeEvent(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if event.Total != "39.50" || event.OccurredAt.IsZero() {
		t.Fatalf("unexpected event %+v", event)
	}
	if got := routingKey("rest-1", constants.EventOrderCreated); got != "rest-1.order.created" {
		t.Fatalf("unexpected routing key %s", got)
	}
}
