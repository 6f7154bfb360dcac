package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sellflow-next/internal/constants"
	"github.com/sellflow-next/internal/models"
	"github.com/sellflow-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupCartServiceTest(t *testing.T) (*CartService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:cart_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
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
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	return NewCartService(cartRepo, productRepo), db
}

func createTestProduct(t *testing.T, db *gorm.DB, slug string, price float64, stock int, status string) *models.Product {
	t.Helper()
	product := &models.Product{
		SellerID:      1,
		CategoryID:    1,
		Slug:          slug,
		Name:          slug,
		Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(price)),
		StockQuantity: stock,
		Status:        status,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func TestAddItemMergesQuantity(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "merge-item", 10, 50, constants.ProductStatusActive)

	if _, err := svc.AddItem(1, product.ID, 2); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	detail, err := svc.AddItem(1, product.ID, 3)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if len(detail.Items) != 1 {
		t.Fatalf("expected single merged line, got %d", len(detail.Items))
	}
	if detail.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", detail.Items[0].Quantity)
	}
	if detail.Total.String() != "50.00" {
		t.Fatalf("expected total 50.00, got %s", detail.Total.String())
	}
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "inactive-item", 10, 50, constants.ProductStatusDraft)

	if _, err := svc.AddItem(1, product.ID, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddItemInvalidQuantity(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "invalid-qty", 10, 50, constants.ProductStatusActive)

	if _, err := svc.AddItem(1, product.ID, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestUpdateItemZeroQuantityRemovesLine(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "zero-qty", 10, 50, constants.ProductStatusActive)

	detail, err := svc.AddItem(1, product.ID, 2)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	itemID := detail.Items[0].ItemID

	detail, err = svc.UpdateItem(1, itemID, 0)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(detail.Items) != 0 {
		t.Fatalf("expected empty cart, got %d items", len(detail.Items))
	}
}

func TestUpdateItemUnknownItem(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "unknown-item", 10, 50, constants.ProductStatusActive)

	if _, err := svc.AddItem(1, product.ID, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.UpdateItem(1, 9999, 2); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCartDropsProductsTakenOffline(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	keep := createTestProduct(t, db, "keep-line", 20, 50, constants.ProductStatusActive)
	drop := createTestProduct(t, db, "drop-line", 10, 50, constants.ProductStatusActive)

	if _, err := svc.AddItem(1, keep.ID, 1); err != nil {
		t.Fatalf("add keep failed: %v", err)
	}
	if _, err := svc.AddItem(1, drop.ID, 1); err != nil {
		t.Fatalf("add drop failed: %v", err)
	}

	if err := db.Model(&models.Product{}).Where("id = ?", drop.ID).
		Update("status", constants.ProductStatusInactive).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	detail, err := svc.Get(1)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if len(detail.Items) != 1 {
		t.Fatalf("expected 1 remaining line, got %d", len(detail.Items))
	}
	if detail.Items[0].ProductID != keep.ID {
		t.Fatalf("expected product %d kept, got %d", keep.ID, detail.Items[0].ProductID)
	}
	if detail.Total.String() != "20.00" {
		t.Fatalf("expected total 20.00, got %s", detail.Total.String())
	}
}

func TestReAddProductAfterRemoval(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "re-add", 10, 50, constants.ProductStatusActive)

	detail, err := svc.AddItem(1, product.ID, 2)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := svc.RemoveItem(1, detail.Items[0].ItemID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	// 删除后同商品必须能重新加入（唯一索引不受历史行影响）
	detail, err = svc.AddItem(1, product.ID, 1)
	if err != nil {
		t.Fatalf("re-add after remove failed: %v", err)
	}
	if len(detail.Items) != 1 || detail.Items[0].Quantity != 1 {
		t.Fatalf("expected fresh line with quantity 1, got %+v", detail.Items)
	}

	if err := svc.Clear(1); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	detail, err = svc.AddItem(1, product.ID, 3)
	if err != nil {
		t.Fatalf("re-add after clear failed: %v", err)
	}
	if len(detail.Items) != 1 || detail.Items[0].Quantity != 3 {
		t.Fatalf("expected fresh line with quantity 3, got %+v", detail.Items)
	}

	var rows int64
	if err := db.Model(&models.CartItem{}).Where("product_id = ?", product.ID).Count(&rows).Error; err != nil {
		t.Fatalf("count rows failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected single physical row, got %d", rows)
	}
}

func TestClearCartIdempotent(t *testing.T) {
	svc, db := setupCartServiceTest(t)
	product := createTestProduct(t, db, "clear-cart", 10, 50, constants.ProductStatusActive)

	if _, err := svc.AddItem(1, product.ID, 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.Clear(1); err != nil {
		t.Fatalf("first clear failed: %v", err)
	}
	if err := svc.Clear(1); err != nil {
		t.Fatalf("second clear failed: %v", err)
	}
	// 从未创建过购物车的用户清空同样成功
	if err := svc.Clear(42); err != nil {
		t.Fatalf("clear without cart failed: %v", err)
	}
}
