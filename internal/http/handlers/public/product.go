package public

import (
	"strings"

	handlershared "github.com/sellflow-next/internal/http/handlers/shared"
	"github.com/sellflow-next/internal/http/response"
	"github.com/sellflow-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	CategoryID    uint     `json:"category_id" binding:"required"`
	Slug          string   `json:"slug" binding:"required"`
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Price         string   `json:"price" binding:"required"`
	StockQuantity int      `json:"stock_quantity"`
	Status        string   `json:"status"`
	Images        []string `json:"images"`
	SortOrder     int      `json:"sort_order"`
}

// TrackEngagementRequest 商品互动埋点请求
type TrackEngagementRequest struct {
	Kind string `json:"kind" binding:"required"`
}

func (r ProductRequest) toServiceInput(c *gin.Context) (service.ProductInput, bool) {
	price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.product_price_invalid", nil)
		return service.ProductInput{}, false
	}
	return service.ProductInput{
		CategoryID:    r.CategoryID,
		Slug:          r.Slug,
		Name:          r.Name,
		Description:   r.Description,
		PriceAmount:   price,
		StockQuantity: r.StockQuantity,
		Status:        r.Status,
		Images:        r.Images,
		SortOrder:     r.SortOrder,
	}, true
}

// GetProducts 公开商品列表
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := parsePagination(c)
	products, total, err := h.ProductService.ListPublic(c.Query("category"), c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, products, buildPagination(page, pageSize, total))
}

// GetProductBySlug 公开商品详情（访问计入浏览数）
func (h *Handler) GetProductBySlug(c *gin.Context) {
	slug := c.Param("slug")
	product, err := h.ProductService.GetPublicBySlug(slug)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	if trackErr := h.ProductService.TrackEngagement(product.ID, "view"); trackErr != nil {
		handlershared.RequestLog(c).Warnw("product_view_track_failed", "product_id", product.ID, "error", trackErr)
	}
	response.Success(c, product)
}

// TrackProductEngagement 商品互动埋点（view/click/share）
func (h *Handler) TrackProductEngagement(c *gin.Context) {
	slug := c.Param("slug")
	var req TrackEngagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.GetPublicBySlug(slug)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	if err := h.ProductService.TrackEngagement(product.ID, req.Kind); err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"tracked": true})
}

// GetMyProducts 卖家商品列表
func (h *Handler) GetMyProducts(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)
	products, total, err := h.ProductService.ListBySeller(uid, c.Query("category"), c.Query("status"), c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, products, buildPagination(page, pageSize, total))
}

// GetMyProduct 卖家商品详情
func (h *Handler) GetMyProduct(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	product, err := h.ProductService.GetBySellerAndID(uid, id)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, product)
}

// CreateMyProduct 卖家创建商品
func (h *Handler) CreateMyProduct(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, ok := req.toServiceInput(c)
	if !ok {
		return
	}
	product, err := h.ProductService.Create(uid, input)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, product)
}

// UpdateMyProduct 卖家更新商品
func (h *Handler) UpdateMyProduct(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	input, ok := req.toServiceInput(c)
	if !ok {
		return
	}
	product, err := h.ProductService.Update(uid, id, input)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, product)
}

// UpdateMyProductStatus 卖家上下架商品
func (h *Handler) UpdateMyProductStatus(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.UpdateStatus(uid, id, req.Status)
	if err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, product)
}

// DeleteMyProduct 卖家删除商品
func (h *Handler) DeleteMyProduct(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(uid, id); err != nil {
		respondWithMappedError(c, err, productErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

func buildPagination(page, pageSize int, total int64) response.Pagination {
	totalPage := int64(0)
	if pageSize > 0 {
		totalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	}
}
