package service

import (
	"strings"

	"github.com/sellflow-next/internal/constants"
)

// allowedTransitions 订单状态机：键为当前状态，值为允许进入的下一状态
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCancelled: true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusProcessing: true,
		constants.OrderStatusShipped:    true,
		constants.OrderStatusCancelled:  true,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped: true,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered: true,
	},
}

func normalizeOrderStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

func isTransitionAllowed(from, to string) bool {
	next, ok := allowedTransitions[normalizeOrderStatus(from)]
	if !ok {
		return false
	}
	return next[normalizeOrderStatus(to)]
}
