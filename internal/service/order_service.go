package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/sellflow-next/internal/config"
	"github.com/sellflow-next/internal/constants"
	"github.com/sellflow-next/internal/logger"
	"github.com/sellflow-next/internal/models"
	"github.com/sellflow-next/internal/queue"
	"github.com/sellflow-next/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShippingInput 收货信息输入
type ShippingInput struct {
	RecipientName string
	Phone         string
	AddressLine1  string
	AddressLine2  string
	City          string
	State         string
	PostalCode    string
	Country       string
}

// CheckoutInput 结算输入
type CheckoutInput struct {
	UserID        uint
	PaymentMethod string
	Notes         string
	Shipping      ShippingInput
}

// OrderService 订单服务
type OrderService struct {
	cfg         *config.Config
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	paymentRepo repository.PaymentRepository
	queueClient *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(
	cfg *config.Config,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	paymentRepo repository.PaymentRepository,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		cfg:         cfg,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		paymentRepo: paymentRepo,
		queueClient: queueClient,
	}
}

// Checkout 结算购物车：校验库存、扣减库存、生成订单快照、创建待支付记录、清空购物车。
// 全部写操作处于同一事务，任一环节失败整体回滚。
func (s *OrderService) Checkout(input CheckoutInput) (*models.Order, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	method := normalizePaymentMethod(input.PaymentMethod)
	if method == "" {
		return nil, ErrPaymentMethodInvalid
	}
	if err := validateShipping(input.Shipping); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByUser(input.UserID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrEmptyCart
	}
	cartItems, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, ErrEmptyCart
	}

	orderNo, err := s.generateOrderNo()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		OrderNo:   orderNo,
		PublicID:  uuid.NewString(),
		UserID:    input.UserID,
		Status:    constants.OrderStatusPending,
		Currency:  constants.SiteCurrencyDefault,
		Notes:     strings.TrimSpace(input.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		productRepo := s.productRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		items := make([]models.OrderItem, 0, len(cartItems))
		total := models.Money{}
		for _, cartItem := range cartItems {
			product, err := productRepo.GetByID(cartItem.ProductID)
			if err != nil {
				return err
			}
			if product == nil || product.Status != constants.ProductStatusActive {
				name := ""
				if cartItem.Product != nil {
					name = cartItem.Product.Name
				}
				return NewInsufficientStockError(name)
			}
			if product.StockQuantity < cartItem.Quantity {
				return NewInsufficientStockError(product.Name)
			}

			// 条件更新扣库存，并发结算下只允许一边成功
			rows, err := productRepo.DecrementStock(product.ID, cartItem.Quantity)
			if err != nil {
				return err
			}
			if rows == 0 {
				return NewInsufficientStockError(product.Name)
			}

			subtotal := product.Price.MulInt(cartItem.Quantity)
			items = append(items, models.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductImage: product.MainImage(),
				UnitPrice:    product.Price,
				Quantity:     cartItem.Quantity,
				Subtotal:     subtotal,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
			total = total.AddMoney(subtotal)
		}

		order.TotalAmount = total
		address := &models.ShippingAddress{
			RecipientName: strings.TrimSpace(input.Shipping.RecipientName),
			Phone:         strings.TrimSpace(input.Shipping.Phone),
			AddressLine1:  strings.TrimSpace(input.Shipping.AddressLine1),
			AddressLine2:  strings.TrimSpace(input.Shipping.AddressLine2),
			City:          strings.TrimSpace(input.Shipping.City),
			State:         strings.TrimSpace(input.Shipping.State),
			PostalCode:    strings.TrimSpace(input.Shipping.PostalCode),
			Country:       strings.TrimSpace(input.Shipping.Country),
			CreatedAt:     now,
		}
		if err := orderRepo.Create(order, items, address); err != nil {
			return err
		}

		payment := &models.Payment{
			OrderID:   order.ID,
			Amount:    total,
			Currency:  order.Currency,
			Method:    method,
			Status:    constants.PaymentStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := paymentRepo.Create(payment); err != nil {
			return err
		}

		return cartRepo.ClearItems(cart.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("order_checkout",
		"order_no", order.OrderNo,
		"user_id", input.UserID,
		"total", order.TotalAmount.String(),
	)
	s.notifyStatus(order.ID, order.Status)

	return s.orderRepo.GetByID(order.ID)
}

// GetByIDAndUser 获取买家订单详情
func (s *OrderService) GetByIDAndUser(id, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// TrackByPublicID 通过分享链接的跟踪ID查询订单（公开接口，不校验归属）
func (s *OrderService) TrackByPublicID(publicID string) (*models.Order, error) {
	publicID = strings.TrimSpace(publicID)
	if _, err := uuid.Parse(publicID); err != nil {
		return nil, ErrNotFound
	}
	order, err := s.orderRepo.GetByPublicID(publicID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// ListByUser 买家订单列表
func (s *OrderService) ListByUser(userID uint, status string, page, pageSize int) ([]models.Order, int64, error) {
	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   userID,
		Status:   normalizeOrderStatus(status),
	}
	return s.orderRepo.ListByUser(filter)
}

// ListBySeller 卖家侧订单列表（订单中包含该卖家商品）
func (s *OrderService) ListBySeller(sellerID uint, status string, page, pageSize int) ([]models.Order, int64, error) {
	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		SellerID: sellerID,
		Status:   normalizeOrderStatus(status),
	}
	return s.orderRepo.ListBySeller(filter)
}

// UpdateStatus 推进订单状态机。进入 confirmed 要求存在已完成支付；
// 取消时回补已扣库存。
func (s *OrderService) UpdateStatus(orderID uint, target string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}

	target = normalizeOrderStatus(target)
	if !isTransitionAllowed(order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}

	if target == constants.OrderStatusConfirmed {
		completed, err := s.paymentRepo.GetLatestCompletedByOrder(order.ID)
		if err != nil {
			return nil, err
		}
		if completed == nil {
			return nil, ErrOrderPaymentIncomplete
		}
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	switch target {
	case constants.OrderStatusConfirmed:
		updates["confirmed_at"] = now
	case constants.OrderStatusShipped:
		updates["shipped_at"] = now
	case constants.OrderStatusDelivered:
		updates["delivered_at"] = now
	case constants.OrderStatusCancelled:
		updates["cancelled_at"] = now
	}

	// 写入带原状态守卫，并发推进（双重取消、取消撞发货）只允许一边落库
	if target == constants.OrderStatusCancelled {
		err = models.DB.Transaction(func(tx *gorm.DB) error {
			rows, err := s.orderRepo.WithTx(tx).UpdateStatus(order.ID, order.Status, target, updates)
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrOrderStatusInvalid
			}
			productRepo := s.productRepo.WithTx(tx)
			for _, item := range order.Items {
				if _, err := productRepo.IncrementStock(item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		rows, err := s.orderRepo.UpdateStatus(order.ID, order.Status, target, updates)
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			return nil, ErrOrderStatusInvalid
		}
	}

	logger.Infow("order_status_changed",
		"order_no", order.OrderNo,
		"from", order.Status,
		"to", target,
	)
	s.notifyStatus(order.ID, target)

	return s.orderRepo.GetByID(order.ID)
}

// Cancel 买家取消自己的订单（仅 pending/confirmed 可取消）
func (s *OrderService) Cancel(orderID, userID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndUser(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return s.UpdateStatus(order.ID, constants.OrderStatusCancelled)
}

// UpdateStatusAsSeller 卖家推进订单状态（需订单中包含该卖家的商品）
func (s *OrderService) UpdateStatusAsSeller(sellerID, orderID uint, target string) (*models.Order, error) {
	count, err := s.orderRepo.CountBySellerAndID(sellerID, orderID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}
	return s.UpdateStatus(orderID, target)
}

func (s *OrderService) notifyStatus(orderID uint, status string) {
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	payload := queue.OrderStatusNotifyPayload{OrderID: orderID, Status: status}
	if err := s.queueClient.EnqueueOrderStatusNotify(payload); err != nil {
		logger.Warnw("order_status_notify_enqueue_failed", "order_id", orderID, "error", err)
	}
}

func (s *OrderService) generateOrderNo() (string, error) {
	length := 8
	if s.cfg != nil && s.cfg.Order.NumberLength > 0 {
		length = s.cfg.Order.NumberLength
	}
	for attempt := 0; attempt < 5; attempt++ {
		orderNo := constants.OrderNumberPrefix + time.Now().Format("20060102") + randNumeric(length)
		count, err := s.orderRepo.CountByOrderNo(orderNo)
		if err != nil {
			return "", err
		}
		if count == 0 {
			return orderNo, nil
		}
	}
	return "", fmt.Errorf("订单号生成冲突")
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}

func normalizePaymentMethod(method string) string {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case constants.PaymentMethodCard:
		return constants.PaymentMethodCard
	case constants.PaymentMethodMobileMoney:
		return constants.PaymentMethodMobileMoney
	case constants.PaymentMethodBankTransfer:
		return constants.PaymentMethodBankTransfer
	case constants.PaymentMethodPaypal:
		return constants.PaymentMethodPaypal
	case constants.PaymentMethodCashless:
		return constants.PaymentMethodCashless
	default:
		return ""
	}
}

func validateShipping(shipping ShippingInput) error {
	if strings.TrimSpace(shipping.RecipientName) == "" ||
		strings.TrimSpace(shipping.AddressLine1) == "" ||
		strings.TrimSpace(shipping.City) == "" ||
		strings.TrimSpace(shipping.Country) == "" {
		return ErrInvalidInput
	}
	return nil
}
