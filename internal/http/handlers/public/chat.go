package public

import (
	"github.com/sellflow-next/internal/http/response"
	"github.com/sellflow-next/internal/service"

	"github.com/gin-gonic/gin"
)

// StartConversationRequest 顾客发起会话请求（公开通道，无需登录）
type StartConversationRequest struct {
	SellerID      uint   `json:"seller_id" binding:"required"`
	ProductID     *uint  `json:"product_id"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email" binding:"required"`
	Body          string `json:"body" binding:"required"`
}

// CustomerMessageRequest 顾客追加消息请求
type CustomerMessageRequest struct {
	CustomerEmail string `json:"customer_email" binding:"required"`
	Body          string `json:"body" binding:"required"`
}

// SellerReplyRequest 卖家回复请求
type SellerReplyRequest struct {
	Body string `json:"body" binding:"required"`
}

// StartConversation 顾客发起会话
func (h *Handler) StartConversation(c *gin.Context) {
	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	conversation, err := h.ChatService.StartConversation(service.StartConversationInput{
		SellerID:      req.SellerID,
		ProductID:     req.ProductID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Body:          req.Body,
	})
	if err != nil {
		respondWithMappedError(c, err, chatErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, conversation)
}

// AppendCustomerMessage 顾客追加消息（以邮箱做轻量归属校验）
func (h *Handler) AppendCustomerMessage(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req CustomerMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	message, err := h.ChatService.AppendCustomerMessage(id, req.CustomerEmail, req.Body)
	if err != nil {
		respondWithMappedError(c, err, chatErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, message)
}

// ListConversations 卖家会话列表
func (h *Handler) ListConversations(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)
	conversations, total, err := h.ChatService.ListConversations(uid, c.Query("status"), c.Query("search"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, conversations, buildPagination(page, pageSize, total))
}

// GetConversation 卖家查看会话（读取即视为已读顾客消息）
func (h *Handler) GetConversation(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	conversation, messages, err := h.ChatService.GetConversation(uid, id)
	if err != nil {
		respondWithMappedError(c, err, chatErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{
		"conversation": conversation,
		"messages":     messages,
	})
}

// ReplyConversation 卖家回复会话
func (h *Handler) ReplyConversation(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req SellerReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	message, err := h.ChatService.ReplyAsSeller(uid, id, req.Body)
	if err != nil {
		respondWithMappedError(c, err, chatErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, message)
}

// CloseConversation 卖家关闭会话
func (h *Handler) CloseConversation(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	conversation, err := h.ChatService.CloseConversation(uid, id)
	if err != nil {
		respondWithMappedError(c, err, chatErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, conversation)
}

// ReopenConversation 卖家重开会话
func (h *Handler) ReopenConversation(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	conversation, err := h.ChatService.ReopenConversation(uid, id)
	if err != nil {
		respondWithMappedError(c, err, chatErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, conversation)
}

// CountConversationUnread 会话未读顾客消息数
func (h *Handler) CountConversationUnread(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	count, err := h.ChatService.CountUnread(uid, id)
	if err != nil {
		respondWithMappedError(c, err, chatErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"unread": count})
}
