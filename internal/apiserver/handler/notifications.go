package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crewforge/backoffice/internal/apiserver/middleware"
)

// ListNotifications returns the caller's notifications, newest first,
// together with the unread count the client polls for.
func (h *Handler) ListNotifications(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	notifications, err := h.store.ListNotifications(c.Request.Context(), claims.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	unread, err := h.store.CountUnread(c.Request.Context(), claims.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications, "unread": unread})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	claims := middleware.ClaimsFromContext(c)
	if err := h.store.MarkNotificationRead(c.Request.Context(), claims.UserID, id); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllNotificationsRead marks every unread notification of the caller.
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	updated, err := h.store.MarkAllNotificationsRead(c.Request.Context(), claims.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
