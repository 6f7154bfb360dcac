package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sellflow-next/internal/cache"
	"github.com/sellflow-next/internal/constants"
	"github.com/sellflow-next/internal/i18n"
	"github.com/sellflow-next/internal/logger"
	"github.com/sellflow-next/internal/models"
	"github.com/sellflow-next/internal/queue"
	"github.com/sellflow-next/internal/repository"

	"github.com/hibiken/asynq"
)

// NotificationCreateInput 创建通知输入
type NotificationCreateInput struct {
	UserID   uint
	Type     string
	Priority string
	Title    string
	Body     string
	RefType  string
	RefID    uint
}

// NotificationService 站内通知服务
type NotificationService struct {
	repo        repository.NotificationRepository
	userRepo    repository.UserRepository
	orderRepo   repository.OrderRepository
	queueClient *queue.Client
}

// NewNotificationService 创建通知服务
func NewNotificationService(
	repo repository.NotificationRepository,
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	queueClient *queue.Client,
) *NotificationService {
	return &NotificationService{
		repo:        repo,
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		queueClient: queueClient,
	}
}

// Create 创建通知并异步分发
func (s *NotificationService) Create(input NotificationCreateInput) (*models.Notification, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	notifType := normalizeNotificationType(input.Type)
	if notifType == "" {
		return nil, ErrInvalidInput
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}

	notification := &models.Notification{
		UserID:   input.UserID,
		Type:     notifType,
		Priority: normalizeNotificationPriority(input.Priority),
		Title:    title,
		Body:     strings.TrimSpace(input.Body),
		RefType:  strings.TrimSpace(input.RefType),
		RefID:    input.RefID,
	}
	if err := s.repo.Create(notification); err != nil {
		return nil, err
	}

	if s.queueClient != nil && s.queueClient.Enabled() {
		payload := queue.NotificationDispatchPayload{
			NotificationID: notification.ID,
			UserID:         notification.UserID,
		}
		if err := s.queueClient.EnqueueNotificationDispatch(payload, asynq.MaxRetry(5)); err != nil {
			logger.Warnw("notification_dispatch_enqueue_failed",
				"notification_id", notification.ID,
				"error", err,
			)
		}
	}
	return notification, nil
}

// Dispatch 处理通知分发任务（投递到实时通道；当前仅记录投递日志）
func (s *NotificationService) Dispatch(ctx context.Context, payload queue.NotificationDispatchPayload) error {
	if s == nil || payload.NotificationID == 0 {
		return nil
	}
	notification, err := s.repo.GetByIDAndUser(payload.NotificationID, payload.UserID)
	if err != nil {
		return err
	}
	if notification == nil {
		return nil
	}

	// 同一通知只投递一次
	ok, err := cache.SetNX(ctx, notificationDedupeKey(notification.ID), "1", 10*time.Minute)
	if err != nil {
		logger.Warnw("notification_dedupe_failed", "notification_id", notification.ID, "error", err)
	}
	if err == nil && !ok {
		return nil
	}

	logger.Infow("notification_dispatched",
		"notification_id", notification.ID,
		"user_id", notification.UserID,
		"type", notification.Type,
		"priority", notification.Priority,
	)
	return nil
}

// NotifyOrderStatus 按订单状态给买家生成本地化通知
func (s *NotificationService) NotifyOrderStatus(orderID uint, status string) error {
	if s == nil || orderID == 0 {
		return nil
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return nil
	}
	user, err := s.userRepo.GetByID(order.UserID)
	if err != nil {
		return err
	}
	locale := constants.LocaleEnUS
	if user != nil && strings.TrimSpace(user.Locale) != "" {
		locale = user.Locale
	}

	status = strings.ToLower(strings.TrimSpace(status))
	priority := constants.NotificationPriorityNormal
	if status == constants.OrderStatusCancelled {
		priority = constants.NotificationPriorityHigh
	}

	_, err = s.Create(NotificationCreateInput{
		UserID:   order.UserID,
		Type:     constants.NotificationTypeOrderStatus,
		Priority: priority,
		Title:    i18n.T(locale, "notification.order_status_title"),
		Body:     i18n.Sprintf(locale, "notification.order_status_body", order.OrderNo, i18n.T(locale, "order.status."+status)),
		RefType:  "order",
		RefID:    order.ID,
	})
	return err
}

// NotifyPaymentStatus 按支付终态给买家生成本地化通知
func (s *NotificationService) NotifyPaymentStatus(orderID uint, status string) error {
	if s == nil || orderID == 0 {
		return nil
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return nil
	}
	user, err := s.userRepo.GetByID(order.UserID)
	if err != nil {
		return err
	}
	locale := constants.LocaleEnUS
	if user != nil && strings.TrimSpace(user.Locale) != "" {
		locale = user.Locale
	}

	status = strings.ToLower(strings.TrimSpace(status))
	priority := constants.NotificationPriorityNormal
	if status == constants.PaymentStatusFailed {
		priority = constants.NotificationPriorityHigh
	}

	_, err = s.Create(NotificationCreateInput{
		UserID:   order.UserID,
		Type:     constants.NotificationTypePaymentStatus,
		Priority: priority,
		Title:    i18n.T(locale, "notification.payment_status_title"),
		Body:     i18n.Sprintf(locale, "notification.payment_status_body", order.OrderNo, i18n.T(locale, "payment.status."+status)),
		RefType:  "order",
		RefID:    order.ID,
	})
	return err
}

// List 用户通知列表
func (s *NotificationService) List(userID uint, notifType string, onlyUnread bool, page, pageSize int) ([]models.Notification, int64, error) {
	filter := repository.NotificationListFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     userID,
		Type:       normalizeNotificationType(notifType),
		OnlyUnread: onlyUnread,
	}
	return s.repo.List(filter)
}

// CountUnread 未读数量
func (s *NotificationService) CountUnread(userID uint) (int64, error) {
	return s.repo.CountUnread(userID)
}

// MarkRead 标记单条已读；重复标记为幂等成功
func (s *NotificationService) MarkRead(id, userID uint) error {
	notification, err := s.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return err
	}
	if notification == nil {
		return ErrNotFound
	}
	_, err = s.repo.MarkRead(id, userID)
	return err
}

// MarkAllRead 全部标记已读
func (s *NotificationService) MarkAllRead(userID uint) (int64, error) {
	return s.repo.MarkAllRead(userID)
}

// Delete 删除通知
func (s *NotificationService) Delete(id, userID uint) error {
	notification, err := s.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return err
	}
	if notification == nil {
		return ErrNotFound
	}
	return s.repo.Delete(id, userID)
}

func notificationDedupeKey(notificationID uint) string {
	return fmt.Sprintf("notification:dispatch:%d", notificationID)
}

func normalizeNotificationType(notifType string) string {
	switch strings.ToLower(strings.TrimSpace(notifType)) {
	case constants.NotificationTypeOrderStatus:
		return constants.NotificationTypeOrderStatus
	case constants.NotificationTypePaymentStatus:
		return constants.NotificationTypePaymentStatus
	case constants.NotificationTypeChatMessage:
		return constants.NotificationTypeChatMessage
	case constants.NotificationTypeSystem:
		return constants.NotificationTypeSystem
	default:
		return ""
	}
}

func normalizeNotificationPriority(priority string) string {
	switch strings.ToLower(strings.TrimSpace(priority)) {
	case constants.NotificationPriorityLow:
		return constants.NotificationPriorityLow
	case constants.NotificationPriorityHigh:
		return constants.NotificationPriorityHigh
	default:
		return constants.NotificationPriorityNormal
	}
}
