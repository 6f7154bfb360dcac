package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sellflow-next/internal/constants"
	"github.com/sellflow-next/internal/models"
	"github.com/sellflow-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupNotificationServiceTest(t *testing.T) (*NotificationService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:notification_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.ShippingAddress{},
		&models.Payment{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewNotificationService(
		repository.NewNotificationRepository(db),
		repository.NewUserRepository(db),
		repository.NewOrderRepository(db),
		nil,
	)
	return svc, db
}

func createTestNotification(t *testing.T, svc *NotificationService, userID uint, notifType string) *models.Notification {
	t.Helper()
	notification, err := svc.Create(NotificationCreateInput{
		UserID: userID,
		Type:   notifType,
		Title:  "test title",
		Body:   "test body",
	})
	if err != nil {
		t.Fatalf("create notification failed: %v", err)
	}
	return notification
}

func TestCreateNotificationValidation(t *testing.T) {
	svc, _ := setupNotificationServiceTest(t)

	if _, err := svc.Create(NotificationCreateInput{Type: "system", Title: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing user, got %v", err)
	}
	if _, err := svc.Create(NotificationCreateInput{UserID: 1, Type: "broadcast", Title: "x"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown type, got %v", err)
	}
	if _, err := svc.Create(NotificationCreateInput{UserID: 1, Type: "system", Title: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank title, got %v", err)
	}

	notification, err := svc.Create(NotificationCreateInput{
		UserID:   1,
		Type:     "System",
		Priority: "urgent",
		Title:    " hello ",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if notification.Type != constants.NotificationTypeSystem || notification.Title != "hello" {
		t.Fatalf("unexpected notification: %+v", notification)
	}
	// 未知优先级回落到 normal
	if notification.Priority != constants.NotificationPriorityNormal {
		t.Fatalf("expected normal priority, got %s", notification.Priority)
	}
}

func TestMarkReadIdempotent(t *testing.T) {
	svc, db := setupNotificationServiceTest(t)
	notification := createTestNotification(t, svc, 1, constants.NotificationTypeSystem)

	if err := svc.MarkRead(notification.ID, 1); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	if err := svc.MarkRead(notification.ID, 1); err != nil {
		t.Fatalf("second mark read should be idempotent: %v", err)
	}
	if err := svc.MarkRead(notification.ID, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}

	var reloaded models.Notification
	if err := db.First(&reloaded, notification.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reloaded.IsRead || reloaded.ReadAt == nil {
		t.Fatalf("expected notification read, got %+v", reloaded)
	}
}

func TestMarkAllReadAndUnreadCount(t *testing.T) {
	svc, _ := setupNotificationServiceTest(t)
	createTestNotification(t, svc, 1, constants.NotificationTypeSystem)
	createTestNotification(t, svc, 1, constants.NotificationTypeChatMessage)
	createTestNotification(t, svc, 2, constants.NotificationTypeSystem)

	unread, err := svc.CountUnread(1)
	if err != nil {
		t.Fatalf("count unread failed: %v", err)
	}
	if unread != 2 {
		t.Fatalf("expected 2 unread, got %d", unread)
	}

	affected, err := svc.MarkAllRead(1)
	if err != nil {
		t.Fatalf("mark all read failed: %v", err)
	}
	if affected != 2 {
		t.Fatalf("expected 2 affected, got %d", affected)
	}
	if unread, _ = svc.CountUnread(1); unread != 0 {
		t.Fatalf("expected 0 unread after mark all, got %d", unread)
	}
	// 其他用户的未读不受影响
	if unread, _ = svc.CountUnread(2); unread != 1 {
		t.Fatalf("expected user 2 unread untouched, got %d", unread)
	}
}

func TestListFiltersByTypeAndUnread(t *testing.T) {
	svc, _ := setupNotificationServiceTest(t)
	chat := createTestNotification(t, svc, 1, constants.NotificationTypeChatMessage)
	createTestNotification(t, svc, 1, constants.NotificationTypeSystem)

	items, total, err := svc.List(1, constants.NotificationTypeChatMessage, false, 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || items[0].ID != chat.ID {
		t.Fatalf("expected only chat notification, got total=%d", total)
	}

	if err := svc.MarkRead(chat.ID, 1); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	_, total, err = svc.List(1, "", true, 1, 20)
	if err != nil {
		t.Fatalf("list unread failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 unread after reading chat, got %d", total)
	}
}

func TestDeleteNotificationOwnership(t *testing.T) {
	svc, db := setupNotificationServiceTest(t)
	notification := createTestNotification(t, svc, 1, constants.NotificationTypeSystem)

	if err := svc.Delete(notification.ID, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
	if err := svc.Delete(notification.ID, 1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	var count int64
	if err := db.Model(&models.Notification{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected notification removed, got %d", count)
	}
}

func TestNotifyOrderStatusLocalized(t *testing.T) {
	svc, db := setupNotificationServiceTest(t)
	user := &models.User{
		Email:        "buyer@example.com",
		PasswordHash: "x",
		UserType:     constants.UserTypeBuyer,
		Locale:       constants.LocaleFrFR,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	order := &models.Order{
		OrderNo:     "SF20260901000123",
		PublicID:    "4f9d2a6e-1b7c-4e55-9f1d-2f4f0b6d7c11",
		UserID:      user.ID,
		Status:      constants.OrderStatusPending,
		Currency:    constants.SiteCurrencyDefault,
		TotalAmount: models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	if err := svc.NotifyOrderStatus(order.ID, constants.OrderStatusCancelled); err != nil {
		t.Fatalf("notify order status failed: %v", err)
	}

	var notification models.Notification
	if err := db.Where("user_id = ?", user.ID).First(&notification).Error; err != nil {
		t.Fatalf("load notification failed: %v", err)
	}
	if notification.Type != constants.NotificationTypeOrderStatus {
		t.Fatalf("expected order_status type, got %s", notification.Type)
	}
	if notification.Priority != constants.NotificationPriorityHigh {
		t.Fatalf("expected high priority for cancellation, got %s", notification.Priority)
	}
	if !strings.Contains(notification.Body, order.OrderNo) {
		t.Fatalf("expected order number in body, got %s", notification.Body)
	}
	if notification.RefType != "order" || notification.RefID != order.ID {
		t.Fatalf("expected order reference, got %s/%d", notification.RefType, notification.RefID)
	}

	// 未知订单静默跳过
	if err := svc.NotifyOrderStatus(9999, constants.OrderStatusShipped); err != nil {
		t.Fatalf("expected missing order to be skipped, got %v", err)
	}
}
