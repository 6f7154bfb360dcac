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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*OrderService, *CartService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:order_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	return orderSvc, cartSvc, db
}

func testShipping() ShippingInput {
	return ShippingInput{
		RecipientName: "Sam Okoro",
		Phone:         "+2348000000",
		AddressLine1:  "12 Market Road",
		City:          "Lagos",
		Country:       "NG",
	}
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	orderSvc, cartSvc, db := setupOrderServiceTest(t)
	product := createTestProduct(t, db, "checkout-happy", 25, 10, constants.ProductStatusActive)

	if _, err := cartSvc.AddItem(1, product.ID, 3); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}

	order, err := orderSvc.Checkout(CheckoutInput{
		UserID:        1,
		PaymentMethod: constants.PaymentMethodCard,
		Notes:         "leave at the gate",
		Shipping:      testShipping(),
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	if order.TotalAmount.String() != "75.00" {
		t.Fatalf("expected total 75.00, got %s", order.TotalAmount.String())
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 3 {
		t.Fatalf("unexpected order items: %+v", order.Items)
	}
	if order.Items[0].UnitPrice.String() != "25.00" {
		t.Fatalf("expected snapshot unit price 25.00, got %s", order.Items[0].UnitPrice.String())
	}
	if order.ShippingAddress == nil || order.ShippingAddress.City != "Lagos" {
		t.Fatalf("expected shipping address snapshot, got %+v", order.ShippingAddress)
	}

	var refreshed models.Product
	if err := db.First(&refreshed, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if refreshed.StockQuantity != 7 {
		t.Fatalf("expected stock 7 after checkout, got %d", refreshed.StockQuantity)
	}

	var payments []models.Payment
	if err := db.Where("order_id = ?", order.ID).Find(&payments).Error; err != nil {
		t.Fatalf("load payments failed: %v", err)
	}
	if len(payments) != 1 || payments[0].Status != constants.PaymentStatusPending {
		t.Fatalf("expected one pending payment, got %+v", payments)
	}

	cart, err := cartSvc.Get(1)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected cart emptied by checkout, got %d items", len(cart.Items))
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	orderSvc, _, _ := setupOrderServiceTest(t)

	_, err := orderSvc.Checkout(CheckoutInput{
		UserID:        1,
		PaymentMethod: constants.PaymentMethodCard,
		Shipping:      testShipping(),
	})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckoutInvalidPaymentMethod(t *testing.T) {
	orderSvc, cartSvc, db := setupOrderServiceTest(t)
	product := createTestProduct(t, db, "checkout-bad-method", 25, 10, constants.ProductStatusActive)
	if _, err := cartSvc.AddItem(1, product.ID, 1); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}

	_, err := orderSvc.Checkout(CheckoutInput{
		UserID:        1,
		PaymentMethod: "bitcoin",
		Shipping:      testShipping(),
	})
	if !errors.Is(err, ErrPaymentMethodInvalid) {
		t.Fatalf("expected ErrPaymentMethodInvalid, got %v", err)
	}
}

func TestCheckoutMissingShippingFields(t *testing.T) {
	orderSvc, cartSvc, db := setupOrderServiceTest(t)
	product := createTestProduct(t, db, "checkout-no-ship", 25, 10, constants.ProductStatusActive)
	if _, err := cartSvc.AddItem(1, product.ID, 1); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}

	shipping := testShipping()
	shipping.City = " "
	_, err := orderSvc.Checkout(CheckoutInput{
		UserID:        1,
		PaymentMethod: constants.PaymentMethodCard,
		Shipping:      shipping,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	orderSvc, cartSvc, db := setupOrderServiceTest(t)
	plenty := createTestProduct(t, db, "stock-plenty", 10, 100, constants.ProductStatusActive)
	scarce := createTestProduct(t, db, "stock-scarce", 10, 2, constants.ProductStatusActive)

	if _, err := cartSvc.AddItem(1, plenty.ID, 1); err != nil {
		t.Fatalf("add plenty failed: %v", err)
	}
	if _, err := cartSvc.AddItem(1, scarce.ID, 5); err != nil {
		t.Fatalf("add scarce failed: %v", err)
	}

	_, err := orderSvc.Checkout(CheckoutInput{
		UserID:        1,
		PaymentMethod: constants.PaymentMethodCard,
		Shipping:      testShipping(),
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	var keyed interface{ Args() []interface{} }
	if !errors.As(err, &keyed) {
		t.Fatalf("expected keyed stock error, got %T", err)
	}
	if args := keyed.Args(); len(args) != 1 || args[0] != "stock-scarce" {
		t.Fatalf("expected product name in error args, got %+v", args)
	}

	// 整体回滚：库存与购物车均保持原状，未产生订单
	var reloaded models.Product
	if err := db.First(&reloaded, plenty.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.StockQuantity != 100 {
		t.Fatalf("expected stock untouched, got %d", reloaded.StockQuantity)
	}
	cart, err := cartSvc.Get(1)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected cart preserved, got %d items", len(cart.Items))
	}
	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 0 {
		t.Fatalf("expected no order created, got %d", orderCount)
	}
}

func TestRepurchaseAfterCheckout(t *testing.T) {
	orderSvc, cartSvc, db := setupOrderServiceTest(t)
	product := createTestProduct(t, db, "re-buy", 25, 10, constants.ProductStatusActive)

	if _, err := cartSvc.AddItem(1, product.ID, 2); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}
	if _, err := orderSvc.Checkout(CheckoutInput{
		UserID:        1,
		PaymentMethod: constants.PaymentMethodCard,
		Shipping:      testShipping(),
	}); err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}

	// 结算清空购物车后同商品必须能再次购买
	detail, err := cartSvc.AddItem(1, product.ID, 1)
	if err != nil {
		t.Fatalf("re-add after checkout failed: %v", err)
	}
	if len(detail.Items) != 1 || detail.Items[0].Quantity != 1 {
		t.Fatalf("expected fresh cart line, got %+v", detail.Items)
	}
	if _, err := orderSvc.Checkout(CheckoutInput{
		UserID:        1,
		PaymentMethod: constants.PaymentMethodCard,
		Shipping:      testShipping(),
	}); err != nil {
		t.Fatalf("second checkout failed: %v", err)
	}

	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 2 {
		t.Fatalf("expected 2 orders, got %d", orderCount)
	}
}

func TestCheckoutAfterStockExhaustion(t *testing.T) {
	orderSvc, cartSvc, db := setupOrderServiceTest(t)
	product := createTestProduct(t, db, "stock-race", 10, 2, constants.ProductStatusActive)

	if _, err := cartSvc.AddItem(1, product.ID, 2); err != nil {
		t.Fatalf("buyer 1 add failed: %v", err)
	}
	if _, err := cartSvc.AddItem(2, product.ID, 2); err != nil {
		t.Fatalf("buyer 2 add failed: %v", err)
	}

	if _, err := orderSvc.Checkout(CheckoutInput{
		UserID:        1,
		PaymentMethod: constants.PaymentMethodCard,
		Shipping:      testShipping(),
	}); err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}
	// 库存只够一边，后到的结算必须整体失败
	_, err := orderSvc.Checkout(CheckoutInput{
		UserID:        2,
		PaymentMethod: constants.PaymentMethodCard,
		Shipping:      testShipping(),
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	var reloaded models.Product
	if err := db.First(&reloaded, product.ID).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if reloaded.StockQuantity != 0 {
		t.Fatalf("expected stock exactly 0, got %d", reloaded.StockQuantity)
	}
	var orderCount int64
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orderCount != 1 {
		t.Fatalf("expected exactly one successful order, got %d", orderCount)
	}
}

func TestOrderSnapshotUnaffectedByPriceChange(t *testing.T) {
	orderSvc, cartSvc, db := setupOrderServiceTest(t)
	product := createTestProduct(t, db, "price-snapshot", 25, 10, constants.ProductStatusActive)

	if _, err := cartSvc.AddItem(1, product.ID, 2); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}
	order, err := orderSvc.Checkout(CheckoutInput{
		UserID:        1,
		PaymentMethod: constants.PaymentMethodCard,
		Shipping:      testShipping(),
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	if err := db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", models.NewMoneyFromDecimal(decimal.NewFromFloat(99.99))).Error; err != nil {
		t.Fatalf("reprice product failed: %v", err)
	}

	// 订单留存下单时刻的价格快照，后续改价不回写
	reloaded, err := orderSvc.GetByIDAndUser(order.ID, 1)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Items[0].UnitPrice.String() != "25.00" {
		t.Fatalf("expected snapshot unit price 25.00, got %s", reloaded.Items[0].UnitPrice.String())
	}
	if reloaded.TotalAmount.String() != "50.00" {
		t.Fatalf("expected total 50.00, got %s", reloaded.TotalAmount.String())
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{constants.OrderStatusPending, constants.OrderStatusConfirmed, true},
		{constants.OrderStatusPending, constants.OrderStatusCancelled, true},
		{constants.OrderStatusPending, constants.OrderStatusShipped, false},
		{constants.OrderStatusConfirmed, constants.OrderStatusProcessing, true},
		{constants.OrderStatusConfirmed, constants.OrderStatusShipped, true},
		{constants.OrderStatusConfirmed, constants.OrderStatusCancelled, true},
		{constants.OrderStatusProcessing, constants.OrderStatusShipped, true},
		{constants.OrderStatusProcessing, constants.OrderStatusCancelled, false},
		{constants.OrderStatusShipped, constants.OrderStatusDelivered, true},
		{constants.OrderStatusShipped, constants.OrderStatusCancelled, false},
		{constants.OrderStatusDelivered, constants.OrderStatusShipped, false},
		{constants.OrderStatusCancelled, constants.OrderStatusConfirmed, false},
	}
	for _, tc := range cases {
		if got := isTransitionAllowed(tc.from, tc.to); got != tc.allowed {
			t.Errorf("transition %s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
	if !isTransitionAllowed(" Pending ", "CONFIRMED") {
		t.Errorf("expected transition check to normalize case and spacing")
	}
}

func checkoutTestOrder(t *testing.T, orderSvc *OrderService, cartSvc *CartService, db *gorm.DB, slug string, stock int) *models.Order {
	t.Helper()
	product := createTestProduct(t, db, slug, 30, stock, constants.ProductStatusActive)
	if _, err := cartSvc.AddItem(1, product.ID, 2); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}
	order, err := orderSvc.Checkout(CheckoutInput{
		UserID:        1,
		PaymentMethod: constants.PaymentMethodMobileMoney,
		Shipping:      testShipping(),
	})
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	return order
}

func TestConfirmRequiresCompletedPayment(t *testing.T) {
	orderSvc, cartSvc, db := setupOrderServiceTest(t)
	order := checkoutTestOrder(t, orderSvc, cartSvc, db, "confirm-no-pay", 10)

	_, err := orderSvc.UpdateStatus(order.ID, constants.OrderStatusConfirmed)
	if !errors.Is(err, ErrOrderPaymentIncomplete) {
		t.Fatalf("expected ErrOrderPaymentIncomplete, got %v", err)
	}

	now := time.Now()
	if err := db.Model(&models.Payment{}).Where("order_id = ?", order.ID).Updates(map[string]interface{}{
		"status":       constants.PaymentStatusCompleted,
		"completed_at": now,
	}).Error; err != nil {
		t.Fatalf("mark payment completed failed: %v", err)
	}

	updated, err := orderSvc.UpdateStatus(order.ID, constants.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if updated.Status != constants.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", updated.Status)
	}
	if updated.ConfirmedAt == nil {
		t.Fatalf("expected confirmed_at set")
	}
}

func TestCancelRestoresStock(t *testing.T) {
	orderSvc, cartSvc, db := setupOrderServiceTest(t)
	order := checkoutTestOrder(t, orderSvc, cartSvc, db, "cancel-restock", 10)

	cancelled, err := orderSvc.Cancel(order.ID, 1)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Fatalf("expected cancelled_at set")
	}

	var product models.Product
	if err := db.Where("slug = ?", "cancel-restock").First(&product).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if product.StockQuantity != 10 {
		t.Fatalf("expected stock restored to 10, got %d", product.StockQuantity)
	}
}

func TestCancelTwiceRestocksOnce(t *testing.T) {
	orderSvc, cartSvc, db := setupOrderServiceTest(t)
	order := checkoutTestOrder(t, orderSvc, cartSvc, db, "cancel-twice", 10)

	if _, err := orderSvc.Cancel(order.ID, 1); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}
	if _, err := orderSvc.Cancel(order.ID, 1); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid on second cancel, got %v", err)
	}

	var product models.Product
	if err := db.Where("slug = ?", "cancel-twice").First(&product).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if product.StockQuantity != 10 {
		t.Fatalf("expected stock restored exactly once, got %d", product.StockQuantity)
	}
}

func TestUpdateStatusGuardedByCurrentStatus(t *testing.T) {
	orderSvc, cartSvc, db := setupOrderServiceTest(t)
	order := checkoutTestOrder(t, orderSvc, cartSvc, db, "status-guard", 10)
	orderRepo := repository.NewOrderRepository(db)

	// 原状态不匹配时写入不生效
	rows, err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusShipped, constants.OrderStatusDelivered, nil)
	if err != nil {
		t.Fatalf("guarded update failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected stale guard to update nothing, got %d rows", rows)
	}
	reloaded, err := orderRepo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPending {
		t.Fatalf("expected status untouched, got %s", reloaded.Status)
	}

	rows, err = orderRepo.UpdateStatus(order.ID, constants.OrderStatusPending, constants.OrderStatusCancelled, nil)
	if err != nil {
		t.Fatalf("guarded update failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected matching guard to update one row, got %d", rows)
	}
}

func TestCancelOtherUsersOrder(t *testing.T) {
	orderSvc, cartSvc, db := setupOrderServiceTest(t)
	order := checkoutTestOrder(t, orderSvc, cartSvc, db, "cancel-foreign", 10)

	if _, err := orderSvc.Cancel(order.ID, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign order, got %v", err)
	}
}

func TestUpdateStatusAsSellerOwnershipCheck(t *testing.T) {
	orderSvc, cartSvc, db := setupOrderServiceTest(t)
	order := checkoutTestOrder(t, orderSvc, cartSvc, db, "seller-status", 10)

	// createTestProduct 固定 seller_id = 1，其他卖家无权推进
	if _, err := orderSvc.UpdateStatusAsSeller(99, order.ID, constants.OrderStatusConfirmed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for non-owning seller, got %v", err)
	}

	now := time.Now()
	if err := db.Model(&models.Payment{}).Where("order_id = ?", order.ID).Updates(map[string]interface{}{
		"status":       constants.PaymentStatusCompleted,
		"completed_at": now,
	}).Error; err != nil {
		t.Fatalf("mark payment completed failed: %v", err)
	}
	updated, err := orderSvc.UpdateStatusAsSeller(1, order.ID, constants.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("seller confirm failed: %v", err)
	}
	if updated.Status != constants.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", updated.Status)
	}
}

func TestTrackOrderByPublicID(t *testing.T) {
	orderSvc, cartSvc, db := setupOrderServiceTest(t)
	order := checkoutTestOrder(t, orderSvc, cartSvc, db, "track-me", 10)

	if order.PublicID == "" {
		t.Fatalf("expected checkout to assign a public id")
	}
	tracked, err := orderSvc.TrackByPublicID(order.PublicID)
	if err != nil {
		t.Fatalf("track failed: %v", err)
	}
	if tracked.OrderNo != order.OrderNo {
		t.Fatalf("expected order %s, got %s", order.OrderNo, tracked.OrderNo)
	}

	if _, err := orderSvc.TrackByPublicID(uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
	// 非 UUID 输入直接按不存在处理
	if _, err := orderSvc.TrackByPublicID("1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
}

func TestGenerateOrderNoPrefix(t *testing.T) {
	orderSvc, _, _ := setupOrderServiceTest(t)
	orderNo, err := orderSvc.generateOrderNo()
	if err != nil {
		t.Fatalf("generate order no failed: %v", err)
	}
	want := constants.OrderNumberPrefix + time.Now().Format("20060102")
	if len(orderNo) != len(want)+8 {
		t.Fatalf("unexpected order no length: %s", orderNo)
	}
	if orderNo[:len(want)] != want {
		t.Fatalf("expected prefix %s, got %s", want, orderNo)
	}
}
