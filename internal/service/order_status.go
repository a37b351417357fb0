package service

import (
	"strings"

	"github.com/mesa-next/internal/constants"
)

// orderTransitions 餐厅侧订单状态流转表
var orderTransitions = map[string][]string{
	constants.OrderStatusPending:   {constants.OrderStatusConfirmed, constants.OrderStatusCancelled},
	constants.OrderStatusConfirmed: {constants.OrderStatusPreparing, constants.OrderStatusCancelled},
	constants.OrderStatusPreparing: {constants.OrderStatusReady, constants.OrderStatusCancelled},
	constants.OrderStatusReady:     {constants.OrderStatusDelivered, constants.OrderStatusCancelled},
}

// NextOrderStatuses 返回当前状态可流转的目标状态，终态返回空
func NextOrderStatuses(status string) []string {
	next := orderTransitions[strings.TrimSpace(status)]
	result := make([]string, len(next))
	copy(result, next)
	return result
}

// CanTransitionOrder 判断订单状态能否流转
func CanTransitionOrder(from, to string) bool {
	for _, candidate := range orderTransitions[strings.TrimSpace(from)] {
		if candidate == strings.TrimSpace(to) {
			return true
		}
	}
	return false
}

// IsValidOrderStatus 判断状态值是否合法
func IsValidOrderStatus(status string) bool {
	switch status {
	case constants.OrderStatusPending,
		constants.OrderStatusConfirmed,
		constants.OrderStatusPreparing,
		constants.OrderStatusReady,
		constants.OrderStatusDelivered,
		constants.OrderStatusCancelled:
		return true
	}
	return false
}
