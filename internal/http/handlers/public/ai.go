package public

import (
	"github.com/sellflow-next/internal/http/response"
	"github.com/sellflow-next/internal/i18n"

	"github.com/gin-gonic/gin"
)

// AIGenerateRequest AI 内容生成请求
type AIGenerateRequest struct {
	ProductID   uint   `json:"product_id" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// GenerateAIContent 为商品生成 AI 文案/话题标签并写回商品
func (h *Handler) GenerateAIContent(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AIGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	result, err := h.AIContentService.GenerateForProduct(c.Request.Context(), uid, req.ProductID, req.ContentType, i18n.ResolveLocale(c))
	if err != nil {
		respondWithMappedError(c, err, aiErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, result)
}
