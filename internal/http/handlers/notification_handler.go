package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/pata-backend/internal/dto"
	"github.com/ignatzorin/pata-backend/internal/http/handlers/common"
	"github.com/ignatzorin/pata-backend/internal/pkg/apperror"
	"github.com/ignatzorin/pata-backend/internal/service"
)

// NotificationHandler обслуживает маршруты уведомлений.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler создаёт новый хэндлер.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotifications обрабатывает GET /notifications.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	actor := common.CurrentActor(c)
	if actor.IsAnonymous() {
		common.RespondAppError(c, apperror.ErrUnauthorized)
		return
	}

	page, err := common.ParsePage(c)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}
	unreadOnly := c.Query("unread_only") == "true"

	items, err := h.notifications.ListNotifications(c.Request.Context(), actor.UserID, page, unreadOnly)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NotificationListResponse{Items: items, Page: page.Number, PageSize: page.Size})
}

// MarkAsRead обрабатывает PUT /notifications/:id/read.
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	actor := common.CurrentActor(c)
	if actor.IsAnonymous() {
		common.RespondAppError(c, apperror.ErrUnauthorized)
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	if err := h.notifications.MarkAsRead(c.Request.Context(), actor.UserID, id); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllAsRead обрабатывает PUT /notifications/read-all.
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	actor := common.CurrentActor(c)
	if actor.IsAnonymous() {
		common.RespondAppError(c, apperror.ErrUnauthorized)
		return
	}

	if err := h.notifications.MarkAllAsRead(c.Request.Context(), actor.UserID); err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetUnreadCount обрабатывает GET /notifications/unread/count.
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	actor := common.CurrentActor(c)
	if actor.IsAnonymous() {
		common.RespondAppError(c, apperror.ErrUnauthorized)
		return
	}

	count, err := h.notifications.CountUnread(c.Request.Context(), actor.UserID)
	if err != nil {
		common.RespondAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UnreadCountResponse{Count: count})
}
