package service

import (
	"strings"

	"github.com/sellflow-next/internal/constants"
	"github.com/sellflow-next/internal/models"
	"github.com/sellflow-next/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService 商品业务服务
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CategoryID    uint
	Slug          string
	Name          string
	Description   string
	PriceAmount   decimal.Decimal
	StockQuantity int
	Status        string
	Images        []string
	SortOrder     int
}

// ListPublic 获取公开商品列表（仅上架商品）
func (s *ProductService) ListPublic(categoryID, search string, page, pageSize int) ([]models.Product, int64, error) {
	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		CategoryID:   categoryID,
		Search:       search,
		OnlyActive:   true,
		WithCategory: true,
	}
	return s.repo.List(filter)
}

// GetPublicBySlug 获取公开商品详情
func (s *ProductService) GetPublicBySlug(slug string) (*models.Product, error) {
	product, err := s.repo.GetBySlug(slug, true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// ListBySeller 卖家商品列表（含未上架）
func (s *ProductService) ListBySeller(sellerID uint, categoryID, status, search string, page, pageSize int) ([]models.Product, int64, error) {
	filter := repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		SellerID:     sellerID,
		CategoryID:   categoryID,
		Status:       normalizeProductStatus(status),
		Search:       search,
		WithCategory: true,
	}
	return s.repo.List(filter)
}

// GetBySellerAndID 获取卖家名下商品详情
func (s *ProductService) GetBySellerAndID(sellerID, id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.SellerID != sellerID {
		return nil, ErrNotFound
	}
	return product, nil
}

// Create 创建商品
func (s *ProductService) Create(sellerID uint, input ProductInput) (*models.Product, error) {
	if sellerID == 0 {
		return nil, ErrInvalidInput
	}
	slug := strings.TrimSpace(input.Slug)
	name := strings.TrimSpace(input.Name)
	if slug == "" || name == "" {
		return nil, ErrInvalidInput
	}
	priceAmount := input.PriceAmount.Round(2)
	if priceAmount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrProductPriceInvalid
	}
	if input.StockQuantity < 0 {
		return nil, ErrInvalidInput
	}

	count, err := s.repo.CountBySlug(slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	status := normalizeProductStatus(input.Status)
	if status == "" {
		status = constants.ProductStatusDraft
	}

	product := models.Product{
		SellerID:      sellerID,
		CategoryID:    input.CategoryID,
		Slug:          slug,
		Name:          name,
		Description:   input.Description,
		Price:         models.NewMoneyFromDecimal(priceAmount),
		StockQuantity: input.StockQuantity,
		Status:        status,
		Images:        models.StringArray(input.Images),
		SortOrder:     input.SortOrder,
	}
	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update 更新商品
func (s *ProductService) Update(sellerID, id uint, input ProductInput) (*models.Product, error) {
	product, err := s.GetBySellerAndID(sellerID, id)
	if err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(input.Slug)
	name := strings.TrimSpace(input.Name)
	if slug == "" || name == "" {
		return nil, ErrInvalidInput
	}
	priceAmount := input.PriceAmount.Round(2)
	if priceAmount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrProductPriceInvalid
	}
	if input.StockQuantity < 0 {
		return nil, ErrInvalidInput
	}

	count, err := s.repo.CountBySlug(slug, &id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	status := normalizeProductStatus(input.Status)
	if status == "" {
		status = product.Status
	}

	product.CategoryID = input.CategoryID
	product.Slug = slug
	product.Name = name
	product.Description = input.Description
	product.Price = models.NewMoneyFromDecimal(priceAmount)
	product.StockQuantity = input.StockQuantity
	product.Status = status
	product.Images = models.StringArray(input.Images)
	product.SortOrder = input.SortOrder

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateStatus 单独变更上下架状态
func (s *ProductService) UpdateStatus(sellerID, id uint, status string) (*models.Product, error) {
	product, err := s.GetBySellerAndID(sellerID, id)
	if err != nil {
		return nil, err
	}
	normalized := normalizeProductStatus(status)
	if normalized == "" {
		return nil, ErrInvalidInput
	}
	product.Status = normalized
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete 删除商品
func (s *ProductService) Delete(sellerID, id uint) error {
	product, err := s.GetBySellerAndID(sellerID, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(product.ID)
}

// TrackEngagement 记录商品浏览/点击/分享
func (s *ProductService) TrackEngagement(id uint, kind string) error {
	var column string
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "view":
		column = "view_count"
	case "click":
		column = "click_count"
	case "share":
		column = "share_count"
	default:
		return ErrInvalidInput
	}
	return s.repo.IncrementCounter(id, column)
}

func normalizeProductStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case constants.ProductStatusDraft:
		return constants.ProductStatusDraft
	case constants.ProductStatusActive:
		return constants.ProductStatusActive
	case constants.ProductStatusInactive:
		return constants.ProductStatusInactive
	case constants.ProductStatusArchived:
		return constants.ProductStatusArchived
	default:
		return ""
	}
}
