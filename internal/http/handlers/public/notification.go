package public

import (
	"errors"

	handlershared "github.com/meeplemarket/internal/http/handlers/shared"
	"github.com/meeplemarket/internal/http/response"
	"github.com/meeplemarket/internal/service"

	"github.com/gin-gonic/gin"
)

// ListNotifications 当前用户通知列表
func (h *Handler) ListNotifications(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, pageSize := parsePagination(c)
	onlyUnread := c.Query("only_unread") == "true"

	notifications, total, err := h.NotificationService.ListByUser(uid, page, pageSize, onlyUnread)
	if err != nil {
		handlershared.RespondError(c, response.CodeInternal, "通知列表查询失败", err)
		return
	}
	response.SuccessWithPage(c, notifications, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, pageSize),
	})
}

// MarkNotificationRead 标记通知为已读
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.NotificationService.MarkRead(notificationID, uid); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			handlershared.RespondError(c, response.CodeNotFound, "通知不存在", nil)
			return
		}
		handlershared.RespondError(c, response.CodeInternal, "通知标记失败", err)
		return
	}
	response.SuccessWithMsg(c, "通知已读", nil)
}
