package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/meeplemarket/internal/logger"
	"github.com/meeplemarket/internal/provider"
	"github.com/meeplemarket/internal/queue"
	"github.com/meeplemarket/internal/service"

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
	mux.HandleFunc(queue.TaskOrderNotification, c.handleOrderNotification)
}

func (c *Consumer) handleOrderNotification(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_notification_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_notification_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 || payload.UserID == 0 {
		logger.Debugw("worker_order_notification_skip_invalid_payload",
			"order_id", payload.OrderID,
			"user_id", payload.UserID,
		)
		return nil
	}

	status := strings.TrimSpace(payload.Status)
	notification, err := c.NotificationService.CreateFromOrderStatus(payload.OrderID, payload.UserID, status)
	if err != nil {
		// 订单已不存在时任务不再重试
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_order_notification_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_notification_create_failed",
			"order_id", payload.OrderID,
			"user_id", payload.UserID,
			"status", status,
			"error", err,
		)
		return err
	}
	if notification == nil {
		logger.Debugw("worker_order_notification_skip_unmapped_status",
			"order_id", payload.OrderID,
			"status", status,
		)
		return nil
	}

	logger.Infow("worker_order_notification_created",
		"order_id", payload.OrderID,
		"user_id", payload.UserID,
		"status", status,
		"notification_id", notification.ID,
	)
	return nil
}
