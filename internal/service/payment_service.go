package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/sellflow-next/internal/constants"
	"github.com/sellflow-next/internal/logger"
	"github.com/sellflow-next/internal/models"
	"github.com/sellflow-next/internal/repository"
)

// ProcessPaymentInput 支付处理输入
type ProcessPaymentInput struct {
	PaymentID uint
	// Decline 模拟/透传渠道拒绝；为 true 时支付进入 failed
	Decline       bool
	FailureReason string
}

// PaymentService 支付服务
type PaymentService struct {
	paymentRepo         repository.PaymentRepository
	orderRepo           repository.OrderRepository
	orderService        *OrderService
	notificationService *NotificationService
}

// NewPaymentService 创建支付服务
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	orderService *OrderService,
	notificationService *NotificationService,
) *PaymentService {
	return &PaymentService{
		paymentRepo:         paymentRepo,
		orderRepo:           orderRepo,
		orderService:        orderService,
		notificationService: notificationService,
	}
}

// Process 推进待支付记录到终态。已处于终态的支付直接返回既有结果（幂等），
// 不再触发渠道逻辑。
func (s *PaymentService) Process(input ProcessPaymentInput) (*models.Payment, error) {
	if input.PaymentID == 0 {
		return nil, ErrInvalidInput
	}
	payment, err := s.paymentRepo.GetByID(input.PaymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	if payment.Status == constants.PaymentStatusCompleted || payment.Status == constants.PaymentStatusFailed {
		return payment, nil
	}

	now := time.Now()
	if input.Decline {
		payment.Status = constants.PaymentStatusFailed
		payment.FailureReason = strings.TrimSpace(input.FailureReason)
		if payment.FailureReason == "" {
			payment.FailureReason = "provider declined"
		}
		payment.UpdatedAt = now
		if err := s.paymentRepo.Update(payment); err != nil {
			return nil, err
		}
		logger.Warnw("payment_failed",
			"payment_id", payment.ID,
			"order_id", payment.OrderID,
			"reason", payment.FailureReason,
		)
		s.notifyPaymentStatus(payment.OrderID, payment.Status)
		return payment, nil
	}

	payment.Status = constants.PaymentStatusCompleted
	payment.TransactionID = generateTransactionID()
	payment.CompletedAt = &now
	payment.UpdatedAt = now
	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, err
	}
	logger.Infow("payment_completed",
		"payment_id", payment.ID,
		"order_id", payment.OrderID,
		"transaction_id", payment.TransactionID,
	)

	s.notifyPaymentStatus(payment.OrderID, payment.Status)

	// 支付完成驱动订单进入 confirmed
	if s.orderService != nil {
		order, err := s.orderRepo.GetByID(payment.OrderID)
		if err == nil && order != nil && order.Status == constants.OrderStatusPending {
			if _, err := s.orderService.UpdateStatus(order.ID, constants.OrderStatusConfirmed); err != nil {
				logger.Warnw("order_confirm_after_payment_failed", "order_id", order.ID, "error", err)
			}
		}
	}

	return payment, nil
}

// Retry 为支付失败的订单创建新的待支付记录；终态支付记录本身不可复用
func (s *PaymentService) Retry(orderID, userID uint, method string) (*models.Payment, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return nil, ErrOrderStatusInvalid
	}

	completed, err := s.paymentRepo.GetLatestCompletedByOrder(order.ID)
	if err != nil {
		return nil, err
	}
	if completed != nil {
		return nil, ErrPaymentTerminal
	}

	normalized := normalizePaymentMethod(method)
	if normalized == "" {
		return nil, ErrPaymentMethodInvalid
	}

	now := time.Now()
	payment := &models.Payment{
		OrderID:   order.ID,
		Amount:    order.TotalAmount,
		Currency:  order.Currency,
		Method:    normalized,
		Status:    constants.PaymentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ListByOrder 订单支付记录
func (s *PaymentService) ListByOrder(orderID, userID uint) ([]models.Payment, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return s.paymentRepo.ListByOrderID(order.ID)
}

// GetByIDAndUser 获取支付记录（校验归属）
func (s *PaymentService) GetByIDAndUser(paymentID, userID uint) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	order, err := s.orderRepo.GetByIDAndUser(payment.OrderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return payment, nil
}

func (s *PaymentService) notifyPaymentStatus(orderID uint, status string) {
	if s.notificationService == nil {
		return
	}
	if err := s.notificationService.NotifyPaymentStatus(orderID, status); err != nil {
		logger.Warnw("payment_notify_failed", "order_id", orderID, "error", err)
	}
}

func generateTransactionID() string {
	return fmt.Sprintf("TXN-%s-%s", time.Now().Format("20060102150405"), randNumeric(6))
}
