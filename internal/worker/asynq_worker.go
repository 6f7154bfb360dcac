package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sellflow-next/internal/logger"
	"github.com/sellflow-next/internal/provider"
	"github.com/sellflow-next/internal/queue"
	"github.com/sellflow-next/internal/service"

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
	mux.HandleFunc(queue.TaskNotificationDispatch, c.handleNotificationDispatch)
	mux.HandleFunc(queue.TaskOrderStatusNotify, c.handleOrderStatusNotify)
	mux.HandleFunc(queue.TaskAIGenerateContent, c.handleAIGenerateContent)
	mux.HandleFunc(queue.TaskSocialPublishPost, c.handleSocialPublishPost)
}

func (c *Consumer) handleNotificationDispatch(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_notification_dispatch_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.NotificationDispatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_notification_dispatch_unmarshal_failed", "error", err)
		return err
	}
	if payload.NotificationID == 0 {
		logger.Debugw("worker_notification_dispatch_skip_invalid_payload", "notification_id", payload.NotificationID)
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_notification_dispatch_skip_service_nil", "notification_id", payload.NotificationID)
		return nil
	}
	if err := c.NotificationService.Dispatch(ctx, payload); err != nil {
		logger.Warnw("worker_notification_dispatch_failed", "notification_id", payload.NotificationID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleOrderStatusNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_status_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderStatusNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_status_notify_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_order_status_notify_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.NotificationService.NotifyOrderStatus(payload.OrderID, payload.Status); err != nil {
		logger.Warnw("worker_order_status_notify_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleAIGenerateContent(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_ai_generate_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.AIGenerateContentPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_ai_generate_unmarshal_failed", "error", err)
		return err
	}
	if payload.ProductID == 0 {
		logger.Debugw("worker_ai_generate_skip_invalid_payload", "product_id", payload.ProductID)
		return nil
	}
	if c.AIContentService == nil || c.ProductRepo == nil {
		logger.Warnw("worker_ai_generate_skip_service_nil", "product_id", payload.ProductID)
		return nil
	}
	product, err := c.ProductRepo.GetByID(payload.ProductID)
	if err != nil {
		logger.Warnw("worker_ai_generate_fetch_product_failed", "product_id", payload.ProductID, "error", err)
		return err
	}
	if product == nil {
		logger.Debugw("worker_ai_generate_skip_product_not_found", "product_id", payload.ProductID)
		return nil
	}
	_, err = c.AIContentService.GenerateForProduct(ctx, product.SellerID, product.ID, payload.ContentType, payload.Locale)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			logger.Debugw("worker_ai_generate_skip_invalid_type", "product_id", payload.ProductID, "content_type", payload.ContentType)
			return nil
		case errors.Is(err, service.ErrNotFound):
			logger.Debugw("worker_ai_generate_skip_not_found", "product_id", payload.ProductID)
			return nil
		default:
			logger.Warnw("worker_ai_generate_failed", "product_id", payload.ProductID, "error", err)
			return err
		}
	}
	return nil
}

func (c *Consumer) handleSocialPublishPost(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_social_publish_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SocialPublishPostPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_social_publish_unmarshal_failed", "error", err)
		return err
	}
	if payload.PostID == 0 {
		logger.Debugw("worker_social_publish_skip_invalid_payload", "post_id", payload.PostID)
		return nil
	}
	if c.SocialService == nil {
		logger.Warnw("worker_social_publish_skip_service_nil", "post_id", payload.PostID)
		return nil
	}
	if err := c.SocialService.ExecutePublish(ctx, payload.PostID); err != nil {
		logger.Warnw("worker_social_publish_failed", "post_id", payload.PostID, "error", err)
		return err
	}
	return nil
}
