package public

import (
	"strconv"

	"github.com/sellflow-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListNotifications 通知列表
func (h *Handler) ListNotifications(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := parsePagination(c)
	onlyUnread, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))
	notifications, total, err := h.NotificationService.List(uid, c.Query("type"), onlyUnread, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, notifications, buildPagination(page, pageSize, total))
}

// CountUnreadNotifications 未读通知数
func (h *Handler) CountUnreadNotifications(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	count, err := h.NotificationService.CountUnread(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"unread": count})
}

// MarkNotificationRead 标记单条已读
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.NotificationService.MarkRead(id, uid); err != nil {
		respondWithMappedError(c, err, notificationErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"read": true})
}

// MarkAllNotificationsRead 全部标记已读
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	updated, err := h.NotificationService.MarkAllRead(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"updated": updated})
}

// DeleteNotification 删除通知
func (h *Handler) DeleteNotification(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.NotificationService.Delete(id, uid); err != nil {
		respondWithMappedError(c, err, notificationErrorRules, response.CodeInternal, "error.internal")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
