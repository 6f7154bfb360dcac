package public

import (
	"time"

	"github.com/sellflow-next/internal/http/response"
	"github.com/sellflow-next/internal/service"

	"github.com/gin-gonic/gin"
)

// SocialAccountRequest 社交账号绑定请求
type SocialAccountRequest struct {
	Platform    string `json:"platform" binding:"required"`
	Handle      string `json:"handle" binding:"required"`
	AccessToken string `json:"access_token"`
}

// SocialPostRequest 社交帖子创建/更新请求
type SocialPostRequest struct {
	ProductID   *uint      `json:"product_id"`
	Platform    string     `json:"platform" binding:"required"`
	Content     string     `json:"content" binding:"required"`
	Hashtags    []string   `json:"hashtags"`
	ImageURL    string     `json:"image_url"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

func (r SocialPostRequest) toServiceInput() service.SocialPostInput {
	return service.SocialPostInput{
		ProductID:   r.ProductID,
		Platform:    r.Platform,
		Content:     r.Content,
		Hashtags:    r.Hashtags,
		ImageURL:    r.ImageURL,
		ScheduledAt: r.ScheduledAt,
	}
}

// ListSocialAccounts 社交账号列表
func (h *Handler) ListSocialAccounts(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	accounts, err := h.SocialService.ListAccounts(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"accounts": accounts})
}

// ConnectSocialAccount 绑定社交账号
func (h *Handler) ConnectSocialAccount(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req SocialAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	account, err := h.SocialService.ConnectAccount(uid, service.SocialAccountInput{
		Platform:    req.Platform,
		Handle:      req.Handle,
		AccessToken: req.AccessToken,
	})
	if err != nil {
		respondWithMappedError(c, err, socialErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, account)
}

// DisconnectSocialAccount 解绑社交账号
func (h *Handler) DisconnectSocialAccount(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.SocialService.DisconnectAccount(uid, id); err != nil {
		respondWithMappedError(c, err, socialErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"disconnected": true})
}

// ListSocialPosts 社交帖子列表
func (h *Handler) ListSocialPosts(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)
	posts, total, err := h.SocialService.ListPosts(uid, c.Query("platform"), c.Query("status"), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, posts, buildPagination(page, pageSize, total))
}

// GetSocialPost 社交帖子详情
func (h *Handler) GetSocialPost(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	post, err := h.SocialService.GetPost(uid, id)
	if err != nil {
		respondWithMappedError(c, err, socialErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, post)
}

// CreateSocialPost 创建社交帖子（带 scheduled_at 即为定时发布）
func (h *Handler) CreateSocialPost(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req SocialPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	post, err := h.SocialService.CreatePost(uid, req.toServiceInput())
	if err != nil {
		respondWithMappedError(c, err, socialErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, post)
}

// UpdateSocialPost 更新社交帖子
func (h *Handler) UpdateSocialPost(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	var req SocialPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	post, err := h.SocialService.UpdatePost(uid, id, req.toServiceInput())
	if err != nil {
		respondWithMappedError(c, err, socialErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, post)
}

// DeleteSocialPost 删除社交帖子
func (h *Handler) DeleteSocialPost(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.SocialService.DeletePost(uid, id); err != nil {
		respondWithMappedError(c, err, socialErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// PublishSocialPost 发布社交帖子（队列可用时异步执行）
func (h *Handler) PublishSocialPost(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	post, err := h.SocialService.PublishPost(uid, id)
	if err != nil {
		respondWithMappedError(c, err, socialErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, post)
}
