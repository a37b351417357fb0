package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mesa-next/internal/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPBroker 基于 RabbitMQ topic 交换机，routing key 为 <restaurant_id>.<event_type>
type AMQPBroker struct {
	conn     *amqp.Connection
	mu       sync.Mutex
	channel  *amqp.Channel
	exchange string
}

// NewAMQPBroker 连接 RabbitMQ 并声明交换机
func NewAMQPBroker(url, exchange string) (*AMQPBroker, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("notify amqp url is empty")
	}
	exchange = strings.TrimSpace(exchange)
	if exchange == "" {
		exchange = "mesa.orders"
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &AMQPBroker{conn: conn, channel: ch, exchange: exchange}, nil
}

func routingKey(restaurantID, eventType string) string {
	return restaurantID + "." + eventType
}

// Publish 发布事件
func (b *AMQPBroker) Publish(ctx context.Context, event Event) error {
	payload, err := encodeEvent(event)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.channel.PublishWithContext(ctx,
		b.exchange,
		routingKey(event.RestaurantID, event.Type),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        payload,
		},
	)
}

// Subscribe 为订阅者声明独占临时队列
func (b *AMQPBroker) Subscribe(ctx context.Context, restaurantID string) (<-chan Event, func(), error) {
	ch, err := b.conn.Channel()
	if err != nil {
		return nil, nil, err
	}
	queue, err := ch.QueueDeclare(
		"",    // 由服务端命名
		false, // durable
		true,  // auto-delete
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, nil, err
	}
	if err := ch.QueueBind(queue.Name, restaurantID+".#", b.exchange, false, nil); err != nil {
		_ = ch.Close()
		return nil, nil, err
	}
	deliveries, err := ch.Consume(
		queue.Name,
		"",    // consumer tag
		true,  // auto-ack
		true,  // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		return nil, nil, err
	}

	out := make(chan Event, subscriberBuffer)
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			_ = ch.Close()
		})
	}
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case msg, ok := <-deliveries:
				if !ok {
					return
				}
				event, err := decodeEvent(msg.Body)
				if err != nil {
					logger.Warnw("notify_amqp_decode_failed", "routing_key", msg.RoutingKey, "error", err)
					continue
				}
				select {
				case out <- event:
				default:
					logger.Warnw("notify_amqp_event_dropped", "restaurant_id", restaurantID, "order_id", event.OrderID)
				}
			}
		}
	}()
	return out, cancel, nil
}

// Close 关闭通道与连接
func (b *AMQPBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.channel != nil {
		_ = b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
