package public

import (
	"strconv"

	handlershared "github.com/consultas-painel/pdfrg/internal/http/handlers/shared"
	"github.com/consultas-painel/pdfrg/internal/http/response"
	"github.com/consultas-painel/pdfrg/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListMyNotifications 当前用户站内通知
func (h *Handler) ListMyNotifications(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePageQuery(c, 20)
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread_only", "false"))

	notifications, total, err := h.NotificationService.ListByUser(repository.NotificationListFilter{
		Page:       page,
		PageSize:   pageSize,
		UserID:     uid,
		UnreadOnly: unreadOnly,
	})
	if err != nil {
		respondNotificationError(c, err)
		return
	}
	response.Page(c, notifications, page, pageSize, total)
}

// GetMyUnreadNotificationCount 当前用户未读通知数
func (h *Handler) GetMyUnreadNotificationCount(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	count, err := h.NotificationService.CountUnread(uid)
	if err != nil {
		respondNotificationError(c, err)
		return
	}
	response.Success(c, gin.H{"unread": count})
}

// MarkMyNotificationRead 标记通知已读
func (h *Handler) MarkMyNotificationRead(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parsePathUint(c, "id")
	if !ok {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if err := h.NotificationService.MarkRead(id, uid); err != nil {
		respondNotificationError(c, err)
		return
	}
	response.Success(c, gin.H{"id": id})
}
