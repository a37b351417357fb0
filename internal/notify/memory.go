package notify

import (
	"context"
	"sync"
	"time"

	"github.com/mesa-next/internal/logger"
)

type memorySubscriber struct {
	restaurantID string
	ch           chan Event
}

// MemoryBroker 进程内广播，慢订阅者的事件会被丢弃
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   map[*memorySubscriber]struct{}
	closed bool
}

// NewMemoryBroker 创建进程内 Broker
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[*memorySubscriber]struct{})}
}

// Publish 发布事件
func (b *MemoryBroker) Publish(_ context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		if sub.restaurantID != event.RestaurantID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			logger.Warnw("notify_memory_event_dropped", "restaurant_id", event.RestaurantID, "order_id", event.OrderID)
		}
	}
	return nil
}

// Subscribe 订阅餐厅事件
func (b *MemoryBroker) Subscribe(ctx context.Context, restaurantID string) (<-chan Event, func(), error) {
	sub := &memorySubscriber{restaurantID: restaurantID, ch: make(chan Event, subscriberBuffer)}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}, nil
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			b.mu.Lock()
			if _, ok := b.subs[sub]; ok {
				delete(b.subs, sub)
				close(sub.ch)
			}
			b.mu.Unlock()
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()
	return sub.ch, cancel, nil
}

// Close 关闭所有订阅
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for sub := range b.subs {
		close(sub.ch)
		delete(b.subs, sub)
	}
	return nil
}
