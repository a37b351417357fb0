package queue

import (
	"encoding/json"

	"github.com/mesa-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPlaced 新订单后置处理任务
	TaskOrderPlaced = constants.TaskOrderPlaced
	// TaskPasswordReset 找回密码任务
	TaskPasswordReset = constants.TaskPasswordReset
)

// OrderPlacedPayload 新订单任务载荷
type OrderPlacedPayload struct {
	OrderID      string `json:"order_id"`
	RestaurantID string `json:"restaurant_id"`
	DeliveryMode string `json:"delivery_mode"`
	Total        string `json:"total"`
	ItemCount    int    `json:"item_count"`
}

// PasswordResetPayload 找回密码任务载荷
type PasswordResetPayload struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Locale    string `json:"locale"`
}

// NewOrderPlacedTask 创建新订单任务
func NewOrderPlacedTask(payload OrderPlacedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPlaced, body), nil
}

// NewPasswordResetTask 创建找回密码任务
func NewPasswordResetTask(payload PasswordResetPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPasswordReset, body), nil
}
