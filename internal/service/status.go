package service

import "github.com/meeplemarket/internal/constants"

// 订单状态流转表，表外流转一律拒绝
var allowedOrderTransitions = map[string]map[string]bool{
	constants.OrderStatusNew: {
		constants.OrderStatusPaid:             true,
		constants.OrderStatusPaymentFailed:    true,
		constants.OrderStatusCancelled:        true,
		constants.OrderStatusAwaitingShipment: true,
	},
	constants.OrderStatusAwaitingShipment: {
		constants.OrderStatusShipped:   true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusPaid: {
		constants.OrderStatusAwaitingShipment: true,
		constants.OrderStatusShipped:          true,
		constants.OrderStatusCancelled:        true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusCompleted: true,
	},
	constants.OrderStatusPaymentFailed: {
		constants.OrderStatusCancelled: true,
	},
}

// 支付状态流转表，failed 与 refunded 为终态
var allowedPaymentTransitions = map[string]map[string]bool{
	constants.PaymentStatusPending: {
		constants.PaymentStatusAuthorized: true,
		constants.PaymentStatusPaid:       true,
		constants.PaymentStatusFailed:     true,
	},
	constants.PaymentStatusAuthorized: {
		constants.PaymentStatusPaid:   true,
		constants.PaymentStatusFailed: true,
	},
	constants.PaymentStatusPaid: {
		constants.PaymentStatusRefunded: true,
	},
}

// 配送状态流转表
var allowedDeliveryTransitions = map[string]map[string]bool{
	constants.DeliveryStatusPending: {
		constants.DeliveryStatusShipped: true,
	},
	constants.DeliveryStatusShipped: {
		constants.DeliveryStatusDelivered: true,
	},
}

// isTransitionAllowed 重申当前状态视为幂等成功
func isTransitionAllowed(table map[string]map[string]bool, current, target string) bool {
	if current == target {
		return true
	}
	nexts, ok := table[current]
	if !ok {
		return false
	}
	return nexts[target]
}

func isOrderTransitionAllowed(current, target string) bool {
	return isTransitionAllowed(allowedOrderTransitions, current, target)
}

func isPaymentTransitionAllowed(current, target string) bool {
	return isTransitionAllowed(allowedPaymentTransitions, current, target)
}

func isDeliveryTransitionAllowed(current, target string) bool {
	return isTransitionAllowed(allowedDeliveryTransitions, current, target)
}
