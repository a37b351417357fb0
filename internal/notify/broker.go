// Package notify 订单事件广播（后台实时订单看板使用）
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/constants"

	"github.com/redis/go-redis/v9"
)

const subscriberBuffer = 32

// Event 订单事件
type Event struct {
	Type         string    `json:"type"`
	RestaurantID string    `json:"restaurant_id"`
	OrderID      string    `json:"order_id"`
	Status       string    `json:"status,omitempty"`
	CustomerName string    `json:"customer_name,omitempty"`
	DeliveryMode string    `json:"delivery_mode,omitempty"`
	Total        string    `json:"total,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// Broker 事件发布订阅
type Broker interface {
	Publish(ctx context.Context, event Event) error
	// Subscribe 订阅某餐厅的事件，返回的 cancel 用于退订并关闭通道
	Subscribe(ctx context.Context, restaurantID string) (<-chan Event, func(), error)
	Close() error
}

// New 按配置创建 Broker
func New(cfg config.NotifyConfig, rdb *redis.Client) (Broker, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", constants.NotifyDriverMemory:
		return NewMemoryBroker(), nil
	case constants.NotifyDriverRedis:
		if rdb == nil {
			return nil, fmt.Errorf("notify driver %q requires redis to be enabled", constants.NotifyDriverRedis)
		}
		return NewRedisBroker(rdb, cfg.Channel), nil
	case constants.NotifyDriverAMQP:
		return NewAMQPBroker(cfg.AMQPURL, cfg.Exchange)
	default:
		return nil, fmt.Errorf("unsupported notify driver: %s", cfg.Driver)
	}
}

func encodeEvent(event Event) ([]byte, error) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	return json.Marshal(event)
}

func decodeEvent(raw []byte) (Event, error) {
	var event Event
	err := json.Unmarshal(raw, &event)
	return event, err
}
