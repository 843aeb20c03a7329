package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNotifications повертає останні сповіщення користувача.
func (h *Handler) ListNotifications(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	notifications, err := h.Storage.GetNotifications(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
