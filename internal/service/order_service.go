package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/logger"
	"github.com/mesa-next/internal/metrics"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/notify"
	"github.com/mesa-next/internal/queue"
	"github.com/mesa-next/internal/repository"
)

const orderIDAttempts = 16

// OrderService 订单下单与后台处理
type OrderService struct {
	orderRepo   repository.OrderRepository
	menuService *MenuService
	queueClient *queue.Client
	broker      notify.Broker
	now         func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, menuService *MenuService, queueClient *queue.Client, broker notify.Broker) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		menuService: menuService,
		queueClient: queueClient,
		broker:      broker,
		now:         time.Now,
	}
}

// PlaceOrder 持久化订单并回填 ID；
// 入队与事件推送失败只记录日志
func (s *OrderService) PlaceOrder(ctx context.Context, order *models.Order) error {
	if order == nil || strings.TrimSpace(order.RestaurantID) == "" {
		return ErrOrderRestaurantEmpty
	}
	if s.menuService != nil {
		if _, err := s.menuService.ResolveOrderable(ctx, order.RestaurantID); err != nil {
			return err
		}
	}
	now := s.now()
	order.Status = constants.OrderStatusPending
	order.CreatedAt = now
	order.UpdatedAt = now

	millis := now.UnixMilli()
	placed := false
	for attempt := 0; attempt < orderIDAttempts; attempt++ {
		order.ID = fmt.Sprintf("ord-%d", millis+int64(attempt))
		err := s.orderRepo.Create(ctx, order)
		if err == nil {
			placed = true
			break
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			metrics.RecordOrderOperation("place", false)
			order.ID = ""
			return err
		}
	}
	if !placed {
		metrics.RecordOrderOperation("place", false)
		order.ID = ""
		return ErrOrderIDExhausted
	}

	metrics.RecordOrderOperation("place", true)
	metrics.RecordOrderPlaced(order.RestaurantID, order.DeliveryMode)
	s.afterPlaced(ctx, order)
	return nil
}

func (s *OrderService) afterPlaced(ctx context.Context, order *models.Order) {
	itemCount := 0
	for _, item := range order.Items {
		itemCount += item.Quantity
	}
	if s.queueClient != nil {
		payload := queue.OrderPlacedPayload{
			OrderID:      order.ID,
			RestaurantID: order.RestaurantID,
			DeliveryMode: order.DeliveryMode,
			Total:        order.Total.String(),
			ItemCount:    itemCount,
		}
		if err := s.queueClient.EnqueueOrderPlaced(payload); err != nil {
			logger.Warnw("order_enqueue_failed", "order_id", order.ID, "error", err)
		}
	}
	s.publish(ctx, notify.Event{
		Type:         constants.EventOrderCreated,
		RestaurantID: order.RestaurantID,
		OrderID:      order.ID,
		Status:       order.Status,
		CustomerName: order.CustomerName,
		DeliveryMode: order.DeliveryMode,
		Total:        order.Total.String(),
		OccurredAt:   order.CreatedAt,
	})
}

// ListOrders 餐厅订单列表
func (s *OrderService) ListOrders(ctx context.Context, filter repository.OrderListFilter) ([]models.Order, int, error) {
	if filter.Status != "" && !IsValidOrderStatus(filter.Status) {
		return nil, 0, ErrOrderStatusInvalid
	}
	return s.orderRepo.ListByRestaurant(ctx, filter)
}

// GetOrder 获取餐厅订单
func (s *OrderService) GetOrder(ctx context.Context, restaurantID, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus 按状态机推进订单状态
func (s *OrderService) UpdateStatus(ctx context.Context, restaurantID, id, status string) (*models.Order, error) {
	status = strings.TrimSpace(status)
	if !IsValidOrderStatus(status) {
		return nil, ErrOrderStatusInvalid
	}
	order, err := s.orderRepo.Update(ctx, restaurantID, id, func(order *models.Order) error {
		if !CanTransitionOrder(order.Status, status) {
			return ErrOrderStatusInvalid
		}
		order.Status = status
		order.UpdatedAt = s.now()
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		metrics.RecordOrderOperation("status", false)
		return nil, err
	}
	metrics.RecordOrderOperation("status", true)
	s.publish(ctx, notify.Event{
		Type:         constants.EventOrderStatusChanged,
		RestaurantID: order.RestaurantID,
		OrderID:      order.ID,
		Status:       order.Status,
		CustomerName: order.CustomerName,
		DeliveryMode: order.DeliveryMode,
		Total:        order.Total.String(),
		OccurredAt:   order.UpdatedAt,
	})
	return order, nil
}

// Subscribe 订阅餐厅订单事件
func (s *OrderService) Subscribe(ctx context.Context, restaurantID string) (<-chan notify.Event, func(), error) {
	if s.broker == nil {
		return nil, nil, errors.New("notify broker not configured")
	}
	return s.broker.Subscribe(ctx, restaurantID)
}

func (s *OrderService) publish(ctx context.Context, event notify.Event) {
	if s.broker == nil {
		return
	}
	if err := s.broker.Publish(ctx, event); err != nil {
		logger.Warnw("order_event_publish_failed", "order_id", event.OrderID, "type", event.Type, "error", err)
	}
}
