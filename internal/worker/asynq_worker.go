package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesa-next/internal/logger"
	"github.com/mesa-next/internal/models"
	"github.com/mesa-next/internal/provider"
	"github.com/mesa-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPlaced, c.handleOrderPlaced)
	mux.HandleFunc(queue.TaskPasswordReset, c.handlePasswordReset)
}

func (c *Consumer) handleOrderPlaced(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_placed_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderPlacedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_placed_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == "" || payload.RestaurantID == "" {
		logger.Debugw("worker_order_placed_skip_invalid_payload", "order_id", payload.OrderID, "restaurant_id", payload.RestaurantID)
		return nil
	}
	order, err := c.OrderRepo.GetByID(ctx, payload.RestaurantID, payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_placed_fetch_order_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		logger.Debugw("worker_order_placed_skip_order_not_found", "order_id", payload.OrderID)
		return nil
	}
	logger.Infow("worker_kitchen_ticket",
		"restaurant_id", order.RestaurantID,
		"order_id", order.ID,
		"delivery_mode", order.DeliveryMode,
		"ticket", BuildKitchenTicket(order),
	)
	return nil
}

func (c *Consumer) handlePasswordReset(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_password_reset_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PasswordResetPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_password_reset_unmarshal_failed", "error", err)
		return err
	}
	if strings.TrimSpace(payload.AccountID) == "" {
		logger.Debugw("worker_password_reset_skip_invalid_payload")
		return nil
	}
	account, err := c.AccountRepo.GetByID(ctx, payload.AccountID)
	if err != nil {
		logger.Warnw("worker_password_reset_fetch_account_failed", "account_id", payload.AccountID, "error", err)
		return err
	}
	if account == nil {
		logger.Debugw("worker_password_reset_skip_account_not_found", "account_id", payload.AccountID)
		return nil
	}
	// 邮件投递不在本服务内，仅记录请求
	logger.Infow("worker_password_reset_requested",
		"account_id", account.ID,
		"email", account.Email,
		"locale", payload.Locale,
	)
	return nil
}

// BuildKitchenTicket 生成厨房小票文本
func BuildKitchenTicket(order *models.Order) string {
	if order == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", order.ID, order.CustomerName)
	if order.TableNumber != "" {
		fmt.Fprintf(&b, " #%s", order.TableNumber)
	}
	for _, item := range order.Items {
		fmt.Fprintf(&b, "\n%dx %s (%s)", item.Quantity, item.ProductName, item.VariationName)
		for _, ingredient := range item.SelectedIngredients {
			fmt.Fprintf(&b, "\n  + %s", ingredient.Name)
		}
		if notes := strings.TrimSpace(item.SpecialNotes); notes != "" {
			fmt.Fprintf(&b, "\n  * %s", notes)
		}
	}
	if notes := strings.TrimSpace(order.Notes); notes != "" {
		fmt.Fprintf(&b, "\n* %s", notes)
	}
	return b.String()
}
