package queue

import (
	"encoding/json"
	"testing"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/constants"
)

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("disabled client should report disabled")
	}
	if err := client.EnqueueOrderPlaced(OrderPlacedPayload{OrderID: "ord-1"}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op: %v", err)
	}
	if err := client.EnqueuePasswordReset(PasswordResetPayload{AccountID: "acc-1"}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected addr %s", opt.Addr)
	}
	if cfg.Concurrency != 10 {
		t.Fatalf("unexpected concurrency %d", cfg.Concurrency)
	}
	if cfg.Queues[constants.QueueCritical] == 0 || cfg.Queues[DefaultQueue] == 0 {
		t.Fatalf("both queues should be served: %v", cfg.Queues)
	}
}

func TestNewOrderPlacedTask(t *testing.T) {
	task, err := NewOrderPlacedTask(OrderPlacedPayload{OrderID: "ord-1", RestaurantID: "rest-1", Total: "39.50", ItemCount: 4})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskOrderPlaced {
		t.Fatalf("unexpected task type %s", task.Type())
	}
	var payload OrderPlacedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("payload decode failed: %v", err)
	}
	if payload.Total != "39.50" || payload.ItemCount != 4 {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestBuildServerConfigOverrides(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: "redis", Port: 6380, DB: 2, Concurrency: 4, Queues: map[string]int{"default": 1}})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt %+v", opt)
	}
	if cfg.Concurrency != 4 || len(cfg.Queues) != 1 {
		t.Fatalf("unexpected server config %+v", cfg)
	}
}

func TestOrderPlacedTaskIDIsStable(t *testing.T) {
	if orderPlacedTaskID(" ord-1 ") != orderPlacedTaskID("ord-1") {
		t.Fatalf("task id should ignore surrounding spaces")
	}
	if orderPlacedTaskID("ord-1") == orderPlacedTaskID("ord-2") {
		t.Fatalf("task id should differ per order")
	}
}
