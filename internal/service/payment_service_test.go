package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sellflow-next/internal/config"
	"github.com/sellflow-next/internal/constants"
	"github.com/sellflow-next/internal/models"
	"github.com/sellflow-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupPaymentServiceTest(t *testing.T) (*PaymentService, *OrderService, *CartService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:payment_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.ShippingAddress{},
		&models.Payment{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.Order.NumberLength = 8
	orderRepo := repository.NewOrderRepository(db)
	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	orderSvc := NewOrderService(cfg, orderRepo, cartRepo, productRepo, paymentRepo, nil)
	cartSvc := NewCartService(cartRepo, productRepo)
	notificationSvc := NewNotificationService(repository.NewNotificationRepository(db), repository.NewUserRepository(db), orderRepo, nil)
	paymentSvc := NewPaymentService(paymentRepo, orderRepo, orderSvc, notificationSvc)
	return paymentSvc, orderSvc, cartSvc, db
}

func pendingPaymentOf(t *testing.T, db *gorm.DB, orderID uint) *models.Payment {
	t.Helper()
	var payment models.Payment
	if err := db.Where("order_id = ? AND status = ?", orderID, constants.PaymentStatusPending).
		Order("id DESC").First(&payment).Error; err != nil {
		t.Fatalf("load pending payment failed: %v", err)
	}
	return &payment
}

func TestProcessCompletesPaymentAndConfirmsOrder(t *testing.T) {
	paymentSvc, orderSvc, cartSvc, db := setupPaymentServiceTest(t)
	order := checkoutTestOrder(t, orderSvc, cartSvc, db, "pay-complete", 10)
	payment := pendingPaymentOf(t, db, order.ID)

	processed, err := paymentSvc.Process(ProcessPaymentInput{PaymentID: payment.ID})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if processed.Status != constants.PaymentStatusCompleted {
		t.Fatalf("expected completed, got %s", processed.Status)
	}
	if processed.TransactionID == "" || processed.CompletedAt == nil {
		t.Fatalf("expected transaction id and completed_at, got %+v", processed)
	}

	refreshed, err := orderSvc.GetByIDAndUser(order.ID, 1)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if refreshed.Status != constants.OrderStatusConfirmed {
		t.Fatalf("expected order confirmed after payment, got %s", refreshed.Status)
	}
}

func TestProcessIsIdempotent(t *testing.T) {
	paymentSvc, orderSvc, cartSvc, db := setupPaymentServiceTest(t)
	order := checkoutTestOrder(t, orderSvc, cartSvc, db, "pay-idempotent", 10)
	payment := pendingPaymentOf(t, db, order.ID)

	first, err := paymentSvc.Process(ProcessPaymentInput{PaymentID: payment.ID})
	if err != nil {
		t.Fatalf("first process failed: %v", err)
	}
	second, err := paymentSvc.Process(ProcessPaymentInput{PaymentID: payment.ID, Decline: true})
	if err != nil {
		t.Fatalf("second process failed: %v", err)
	}
	if second.Status != constants.PaymentStatusCompleted {
		t.Fatalf("expected terminal status preserved, got %s", second.Status)
	}
	if second.TransactionID != first.TransactionID {
		t.Fatalf("expected same transaction id, got %s vs %s", second.TransactionID, first.TransactionID)
	}
}

func TestProcessDeclineMarksFailed(t *testing.T) {
	paymentSvc, orderSvc, cartSvc, db := setupPaymentServiceTest(t)
	order := checkoutTestOrder(t, orderSvc, cartSvc, db, "pay-decline", 10)
	payment := pendingPaymentOf(t, db, order.ID)

	processed, err := paymentSvc.Process(ProcessPaymentInput{
		PaymentID:     payment.ID,
		Decline:       true,
		FailureReason: "card expired",
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if processed.Status != constants.PaymentStatusFailed {
		t.Fatalf("expected failed, got %s", processed.Status)
	}
	if processed.FailureReason != "card expired" {
		t.Fatalf("expected failure reason preserved, got %s", processed.FailureReason)
	}

	refreshed, err := orderSvc.GetByIDAndUser(order.ID, 1)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if refreshed.Status != constants.OrderStatusPending {
		t.Fatalf("expected order still pending after failed payment, got %s", refreshed.Status)
	}
}

func TestRetryAfterFailureCreatesNewPendingPayment(t *testing.T) {
	paymentSvc, orderSvc, cartSvc, db := setupPaymentServiceTest(t)
	order := checkoutTestOrder(t, orderSvc, cartSvc, db, "pay-retry", 10)
	payment := pendingPaymentOf(t, db, order.ID)

	if _, err := paymentSvc.Process(ProcessPaymentInput{PaymentID: payment.ID, Decline: true}); err != nil {
		t.Fatalf("decline failed: %v", err)
	}

	retry, err := paymentSvc.Retry(order.ID, 1, constants.PaymentMethodBankTransfer)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if retry.Status != constants.PaymentStatusPending {
		t.Fatalf("expected new pending payment, got %s", retry.Status)
	}
	if retry.ID == payment.ID {
		t.Fatalf("expected new payment record, got same id %d", retry.ID)
	}
	if retry.Method != constants.PaymentMethodBankTransfer {
		t.Fatalf("expected bank_transfer, got %s", retry.Method)
	}
	if retry.Amount.String() != order.TotalAmount.String() {
		t.Fatalf("expected amount %s, got %s", order.TotalAmount.String(), retry.Amount.String())
	}
}

func TestRetryRejectedAfterCompletedPayment(t *testing.T) {
	paymentSvc, orderSvc, cartSvc, db := setupPaymentServiceTest(t)
	order := checkoutTestOrder(t, orderSvc, cartSvc, db, "pay-retry-done", 10)
	payment := pendingPaymentOf(t, db, order.ID)

	if _, err := paymentSvc.Process(ProcessPaymentInput{PaymentID: payment.ID}); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	// 支付完成后订单已 confirmed
	if _, err := paymentSvc.Retry(order.ID, 1, constants.PaymentMethodCard); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid, got %v", err)
	}
}

func TestGetByIDAndUserRejectsForeignPayment(t *testing.T) {
	paymentSvc, orderSvc, cartSvc, db := setupPaymentServiceTest(t)
	order := checkoutTestOrder(t, orderSvc, cartSvc, db, "pay-foreign", 10)
	payment := pendingPaymentOf(t, db, order.ID)

	if _, err := paymentSvc.GetByIDAndUser(payment.ID, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
	got, err := paymentSvc.GetByIDAndUser(payment.ID, 1)
	if err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if got.ID != payment.ID {
		t.Fatalf("expected payment %d, got %d", payment.ID, got.ID)
	}
}

func TestProcessEmitsPaymentNotification(t *testing.T) {
	paymentSvc, orderSvc, cartSvc, db := setupPaymentServiceTest(t)
	order := checkoutTestOrder(t, orderSvc, cartSvc, db, "pay-notify", 10)
	payment := pendingPaymentOf(t, db, order.ID)

	if _, err := paymentSvc.Process(ProcessPaymentInput{PaymentID: payment.ID, Decline: true}); err != nil {
		t.Fatalf("decline failed: %v", err)
	}

	var notifications []models.Notification
	if err := db.Where("user_id = ?", 1).Find(&notifications).Error; err != nil {
		t.Fatalf("load notifications failed: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification after failed payment, got %d", len(notifications))
	}
	if notifications[0].Type != constants.NotificationTypePaymentStatus {
		t.Fatalf("expected payment_status type, got %s", notifications[0].Type)
	}
	if notifications[0].Priority != constants.NotificationPriorityHigh {
		t.Fatalf("expected high priority for failure, got %s", notifications[0].Priority)
	}

	retry, err := paymentSvc.Retry(order.ID, 1, constants.PaymentMethodCard)
	if err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if _, err := paymentSvc.Process(ProcessPaymentInput{PaymentID: retry.ID}); err != nil {
		t.Fatalf("process retry failed: %v", err)
	}
	var count int64
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", 1, constants.NotificationTypePaymentStatus).
		Count(&count).Error; err != nil {
		t.Fatalf("count notifications failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected completion notification added, got %d", count)
	}
}

func TestListByOrderRequiresOwnership(t *testing.T) {
	paymentSvc, orderSvc, cartSvc, db := setupPaymentServiceTest(t)
	order := checkoutTestOrder(t, orderSvc, cartSvc, db, "pay-list", 10)

	if _, err := paymentSvc.ListByOrder(order.ID, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign user, got %v", err)
	}
	payments, err := paymentSvc.ListByOrder(order.ID, 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(payments))
	}
}
