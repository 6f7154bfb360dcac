package service

import (
	"github.com/sellflow-next/internal/constants"
	"github.com/sellflow-next/internal/models"
	"github.com/sellflow-next/internal/repository"
)

// CartItemDetail 购物车项详情（按当前商品价格计价）
type CartItemDetail struct {
	ItemID    uint            `json:"item_id"`
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice models.Money    `json:"unit_price"`
	Subtotal  models.Money    `json:"subtotal"`
	Product   *models.Product `json:"product"`
}

// CartDetail 购物车详情
type CartDetail struct {
	CartID uint             `json:"cart_id"`
	Items  []CartItemDetail `json:"items"`
	Total  models.Money     `json:"total"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Get 获取用户购物车，首次读取时惰性创建
func (s *CartService) Get(userID uint) (*CartDetail, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.buildDetail(cart)
}

// AddItem 加入购物车；同一商品合并数量而非新增行
func (s *CartService) AddItem(userID, productID uint, quantity int) (*CartDetail, error) {
	if userID == 0 || productID == 0 {
		return nil, ErrInvalidInput
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.Status != constants.ProductStatusActive {
		return nil, ErrNotFound
	}

	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.GetItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if err := s.cartRepo.UpdateItemQuantity(existing.ID, existing.Quantity+quantity); err != nil {
			return nil, err
		}
	} else {
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		}
		if err := s.cartRepo.CreateItem(item); err != nil {
			return nil, err
		}
	}
	return s.buildDetail(cart)
}

// UpdateItem 更新购物车项数量；数量小于等于零时删除该项
func (s *CartService) UpdateItem(userID, itemID uint, quantity int) (*CartDetail, error) {
	if userID == 0 || itemID == 0 {
		return nil, ErrInvalidInput
	}
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrNotFound
	}
	item, err := s.cartRepo.GetItemByID(itemID, cart.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}

	if quantity <= 0 {
		if err := s.cartRepo.DeleteItemByID(item.ID, cart.ID); err != nil {
			return nil, err
		}
	} else {
		if err := s.cartRepo.UpdateItemQuantity(item.ID, quantity); err != nil {
			return nil, err
		}
	}
	return s.buildDetail(cart)
}

// RemoveItem 删除购物车项；项不存在视为幂等成功
func (s *CartService) RemoveItem(userID, itemID uint) (*CartDetail, error) {
	if userID == 0 || itemID == 0 {
		return nil, ErrInvalidInput
	}
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrNotFound
	}
	if err := s.cartRepo.DeleteItemByID(itemID, cart.ID); err != nil {
		return nil, err
	}
	return s.buildDetail(cart)
}

// Clear 清空购物车；幂等
func (s *CartService) Clear(userID uint) error {
	if userID == 0 {
		return ErrInvalidInput
	}
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}
	return s.cartRepo.ClearItems(cart.ID)
}

// buildDetail 重新按当前商品价格汇总购物车；下架商品自动剔除
func (s *CartService) buildDetail(cart *models.Cart) (*CartDetail, error) {
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, err
	}

	detail := &CartDetail{
		CartID: cart.ID,
		Items:  make([]CartItemDetail, 0, len(items)),
	}
	for _, item := range items {
		product := item.Product
		if product == nil || product.ID == 0 {
			p, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
			product = p
		}
		if product == nil || product.Status != constants.ProductStatusActive {
			_ = s.cartRepo.DeleteItemByID(item.ID, cart.ID)
			continue
		}

		subtotal := product.Price.MulInt(item.Quantity)
		detail.Items = append(detail.Items, CartItemDetail{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Subtotal:  subtotal,
			Product:   product,
		})
		detail.Total = detail.Total.AddMoney(subtotal)
	}
	return detail, nil
}
