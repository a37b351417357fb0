package notify

import (
	"context"
	"strings"
	"sync"

	"github.com/mesa-next/internal/logger"

	"github.com/redis/go-redis/v9"
)

// RedisBroker 基于 Redis Pub/Sub，多实例部署时共享事件
type RedisBroker struct {
	client  *redis.Client
	channel string
}

// NewRedisBroker 创建 Redis Broker
func NewRedisBroker(client *redis.Client, channel string) *RedisBroker {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = "mesa:orders"
	}
	return &RedisBroker{client: client, channel: channel}
}

func (b *RedisBroker) channelFor(restaurantID string) string {
	return b.channel + ":" + restaurantID
}

// Publish 发布事件
func (b *RedisBroker) Publish(ctx context.Context, event Event) error {
	payload, err := encodeEvent(event)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channelFor(event.RestaurantID), payload).Err()
}

// Subscribe 订阅餐厅频道
func (b *RedisBroker) Subscribe(ctx context.Context, restaurantID string) (<-chan Event, func(), error) {
	pubsub := b.client.Subscribe(ctx, b.channelFor(restaurantID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}
	out := make(chan Event, subscriberBuffer)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = pubsub.Close()
		})
	}
	go func() {
		defer close(out)
		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case <-done:
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				event, err := decodeEvent([]byte(msg.Payload))
				if err != nil {
					logger.Warnw("notify_redis_decode_failed", "channel", msg.Channel, "error", err)
					continue
				}
				select {
				case out <- event:
				default:
					logger.Warnw("notify_redis_event_dropped", "restaurant_id", restaurantID, "order_id", event.OrderID)
				}
			}
		}
	}()
	return out, cancel, nil
}

// Close 客户端由调用方持有，这里无需关闭
func (b *RedisBroker) Close() error {
	return nil
}
