package public

import (
	"github.com/sellflow-next/internal/http/response"
	"github.com/sellflow-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ProcessPaymentRequest 支付处理请求
// decline=true 模拟支付网关拒绝
type ProcessPaymentRequest struct {
	Decline       bool   `json:"decline"`
	FailureReason string `json:"failure_reason"`
}

// RetryPaymentRequest 重试支付请求
type RetryPaymentRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// ProcessPayment 推进支付状态（幂等：已终态直接返回现有结果）
func (h *Handler) ProcessPayment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	// 归属校验：支付必须属于当前用户的订单
	if _, err := h.PaymentService.GetByIDAndUser(id, uid); err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "error.internal")
		return
	}

	payment, err := h.PaymentService.Process(service.ProcessPaymentInput{
		PaymentID:     id,
		Decline:       req.Decline,
		FailureReason: req.FailureReason,
	})
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, payment)
}

// GetPayment 支付详情
func (h *Handler) GetPayment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	payment, err := h.PaymentService.GetByIDAndUser(id, uid)
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, payment)
}

// ListOrderPayments 订单下的支付记录
func (h *Handler) ListOrderPayments(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	payments, err := h.PaymentService.ListByOrder(orderID, uid)
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"payments": payments})
}

// RetryOrderPayment 支付失败后重试（生成新的待支付记录）
func (h *Handler) RetryOrderPayment(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req RetryPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	payment, err := h.PaymentService.Retry(orderID, uid, req.PaymentMethod)
	if err != nil {
		respondWithMappedError(c, err, paymentErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, payment)
}
