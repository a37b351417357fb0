// Package checkout 四步结账流程：配送方式 -> 顾客信息 -> 确认 -> 完成
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mesa-next/internal/cart"
	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/models"
)

// Step 结账步骤
type Step string

const (
	StepDelivery Step = "delivery"
	StepInfo     Step = "info"
	StepConfirm  Step = "confirm"
	StepSuccess  Step = "success"
)

var (
	ErrInvalidTransition = errors.New("checkout: invalid transition")
	ErrInvalidMode       = errors.New("checkout: invalid delivery mode")
	ErrEmptyCart         = errors.New("checkout: cart is empty")
)

// 校验失败时的文案键
const (
	MessageKeyContact = "error.checkout_contact"
	MessageKeyAddress = "error.checkout_address"
)

// ValidationError 顾客信息校验失败
type ValidationError struct {
	Fields     []string
	MessageKey string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout: missing fields %s", strings.Join(e.Fields, ","))
}

// CustomerInfo 顾客填写的信息
type CustomerInfo struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	City        string `json:"city"`
	TableNumber string `json:"table_number"`
	Notes       string `json:"notes"`
}

// Placer 持久化订单；成功时需回填订单 ID
type Placer interface {
	PlaceOrder(ctx context.Context, order *models.Order) error
}

// State 流程快照
type State struct {
	Step        Step         `json:"step"`
	Mode        string       `json:"delivery_mode"`
	Customer    CustomerInfo `json:"customer"`
	OrderNumber string       `json:"order_number,omitempty"`
}

// Flow 单个会话的结账流程
// 非并发安全，由会话负责串行化
type Flow struct {
	cart        *cart.Cart
	phonePrefix string
	step        Step
	mode        string
	info        CustomerInfo
	orderNumber string
}

// NewFlow 创建结账流程
func NewFlow(c *cart.Cart, phonePrefix string) *Flow {
	if strings.TrimSpace(phonePrefix) == "" {
		phonePrefix = constants.DefaultPhonePrefix
	}
	f := &Flow{cart: c, phonePrefix: phonePrefix}
	f.Reset()
	return f
}

// IsValidMode 判断配送方式是否合法
func IsValidMode(mode string) bool {
	switch mode {
	case constants.DeliveryModePickup, constants.DeliveryModeDineIn, constants.DeliveryModeDelivery:
		return true
	}
	return false
}

// State 当前状态
func (f *Flow) State() State {
	return State{Step: f.step, Mode: f.mode, Customer: f.info, OrderNumber: f.orderNumber}
}

// Step 当前步骤
func (f *Flow) Step() Step {
	return f.step
}

// SelectMode delivery -> info
func (f *Flow) SelectMode(mode string) error {
	if f.step != StepDelivery {
		return ErrInvalidTransition
	}
	mode = strings.TrimSpace(mode)
	if !IsValidMode(mode) {
		return ErrInvalidMode
	}
	f.mode = mode
	f.step = StepInfo
	return nil
}

// Back info -> delivery，保留已选方式
func (f *Flow) Back() error {
	if f.step != StepInfo {
		return ErrInvalidTransition
	}
	f.step = StepDelivery
	return nil
}

// SetCustomerInfo 更新顾客信息
func (f *Flow) SetCustomerInfo(info CustomerInfo) error {
	if f.step != StepInfo {
		return ErrInvalidTransition
	}
	f.info = info
	return nil
}

// Continue info -> confirm，校验失败时停留在 info
func (f *Flow) Continue() error {
	if f.step != StepInfo {
		return ErrInvalidTransition
	}
	if err := f.validate(); err != nil {
		return err
	}
	f.step = StepConfirm
	return nil
}

// EditInfo confirm -> info
func (f *Flow) EditInfo() error {
	if f.step != StepConfirm {
		return ErrInvalidTransition
	}
	f.step = StepInfo
	return nil
}

// Confirm confirm -> success
// 订单持久化失败时不清空购物车且停留在 confirm
func (f *Flow) Confirm(ctx context.Context, placer Placer) (*models.Order, error) {
	if f.step != StepConfirm {
		return nil, ErrInvalidTransition
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	if f.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	order := f.buildOrder()
	if err := placer.PlaceOrder(ctx, order); err != nil {
		return nil, err
	}
	f.cart.Clear()
	f.orderNumber = order.ID
	f.step = StepSuccess
	return order, nil
}

// Close 关闭流程并恢复初始值
func (f *Flow) Close() {
	f.Reset()
}

// Reset 恢复初始值
func (f *Flow) Reset() {
	f.step = StepDelivery
	f.mode = constants.DeliveryModePickup
	f.info = CustomerInfo{Phone: f.phonePrefix}
	f.orderNumber = ""
}

func (f *Flow) validate() error {
	var missing []string
	if strings.TrimSpace(f.info.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(f.info.Phone) == "" {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing, MessageKey: MessageKeyContact}
	}
	if f.mode == constants.DeliveryModeDelivery {
		if strings.TrimSpace(f.info.Address) == "" {
			missing = append(missing, "address")
		}
		if strings.TrimSpace(f.info.City) == "" {
			missing = append(missing, "city")
		}
		if len(missing) > 0 {
			return &ValidationError{Fields: missing, MessageKey: MessageKeyAddress}
		}
	}
	return nil
}

func (f *Flow) buildOrder() *models.Order {
	items, total := f.cart.Snapshot()
	order := &models.Order{
		RestaurantID:  f.cart.RestaurantID(),
		CustomerName:  strings.TrimSpace(f.info.Name),
		CustomerPhone: strings.TrimSpace(f.info.Phone),
		CustomerEmail: strings.TrimSpace(f.info.Email),
		DeliveryMode:  f.mode,
		Items:         items,
		Notes:         strings.TrimSpace(f.info.Notes),
		Total:         models.NewMoneyFromDecimal(total),
		Status:        constants.OrderStatusPending,
	}
	switch f.mode {
	case constants.DeliveryModeDelivery:
		address := fmt.Sprintf("%s, %s", strings.TrimSpace(f.info.Address), strings.TrimSpace(f.info.City))
		order.DeliveryAddress = &address
	case constants.DeliveryModeDineIn:
		order.TableNumber = strings.TrimSpace(f.info.TableNumber)
	}
	return order
}
