package queue

import (
	"encoding/json"

	"github.com/sellflow-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskNotificationDispatch 站内通知分发任务
	TaskNotificationDispatch = constants.TaskNotificationDispatch
	// TaskOrderStatusNotify 订单状态变更通知任务
	TaskOrderStatusNotify = constants.TaskOrderStatusNotify
	// TaskAIGenerateContent AI 内容生成任务
	TaskAIGenerateContent = constants.TaskAIGenerateContent
	// TaskSocialPublishPost 社交帖子发布任务
	TaskSocialPublishPost = constants.TaskSocialPublishPost
)

// NotificationDispatchPayload 通知分发任务载荷
type NotificationDispatchPayload struct {
	NotificationID uint `json:"notification_id"`
	UserID         uint `json:"user_id"`
}

// OrderStatusNotifyPayload 订单状态变更通知任务载荷
type OrderStatusNotifyPayload struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
}

// AIGenerateContentPayload AI 内容生成任务载荷
type AIGenerateContentPayload struct {
	ProductID   uint   `json:"product_id"`
	ContentType string `json:"content_type"`
	Locale      string `json:"locale"`
}

// SocialPublishPostPayload 社交帖子发布任务载荷
type SocialPublishPostPayload struct {
	PostID uint `json:"post_id"`
}

// NewNotificationDispatchTask 创建通知分发任务
func NewNotificationDispatchTask(payload NotificationDispatchPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationDispatch, body), nil
}

// NewOrderStatusNotifyTask 创建订单状态通知任务
func NewOrderStatusNotifyTask(payload OrderStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusNotify, body), nil
}

// NewAIGenerateContentTask 创建 AI 内容生成任务
func NewAIGenerateContentTask(payload AIGenerateContentPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAIGenerateContent, body), nil
}

// NewSocialPublishPostTask 创建社交帖子发布任务
func NewSocialPublishPostTask(payload SocialPublishPostPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSocialPublishPost, body), nil
}
