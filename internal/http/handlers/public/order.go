package public

import (
	"github.com/sellflow-next/internal/http/response"
	"github.com/sellflow-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
	Notes         string `json:"notes"`
	RecipientName string `json:"recipient_name" binding:"required"`
	Phone         string `json:"phone"`
	AddressLine1  string `json:"address_line1" binding:"required"`
	AddressLine2  string `json:"address_line2"`
	City          string `json:"city" binding:"required"`
	State         string `json:"state"`
	PostalCode    string `json:"postal_code"`
	Country       string `json:"country" binding:"required"`
}

// OrderStatusRequest 卖家推进订单状态请求
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Checkout 结算购物车，生成订单与待支付记录
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.Checkout(service.CheckoutInput{
		UserID:        uid,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
		Shipping: service.ShippingInput{
			RecipientName: req.RecipientName,
			Phone:         req.Phone,
			AddressLine1:  req.AddressLine1,
			AddressLine2:  req.AddressLine2,
			City:          req.City,
			State:         req.State,
			PostalCode:    req.PostalCode,
			Country:       req.Country,
		},
	})
	if err != nil {
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}

// ListOrders 买家订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)
	orders, total, err := h.OrderService.ListByUser(uid, c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, orders, buildPagination(page, pageSize, total))
}

// GetOrder 买家订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetByIDAndUser(id, uid)
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}

// TrackOrder 分享链接的公开订单跟踪，仅暴露状态与时间线
func (h *Handler) TrackOrder(c *gin.Context) {
	order, err := h.OrderService.TrackByPublicID(c.Param("public_id"))
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{
		"order_no":     order.OrderNo,
		"status":       order.Status,
		"created_at":   order.CreatedAt,
		"confirmed_at": order.ConfirmedAt,
		"shipped_at":   order.ShippedAt,
		"delivered_at": order.DeliveredAt,
		"cancelled_at": order.CancelledAt,
	})
}

// SellerOrders 卖家侧订单列表（包含该卖家商品的订单）
func (h *Handler) SellerOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)
	orders, total, err := h.OrderService.ListBySeller(uid, c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, orders, buildPagination(page, pageSize, total))
}

// CancelOrder 买家取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.Cancel(id, uid)
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 卖家推进订单状态（confirm/processing/ship/deliver/cancel）
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	order, err := h.OrderService.UpdateStatusAsSeller(uid, id, req.Status)
	if err != nil {
		respondWithMappedError(c, err, orderStatusErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, order)
}
