package handler

import (
	"net/http"
	"strings"

	"marketchat/backend/internal/chathub"
	"marketchat/backend/internal/delivery"
	"marketchat/backend/internal/realtime"
	"marketchat/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// Handler містить залежності HTTP-шару: хаб, сховище, конвеєр доставки
// та realtime-видавця.
type Handler struct {
	Hub       *chathub.ManagerService
	Storage   storage.Storage
	Delivery  *delivery.Service
	Publisher realtime.Publisher
	JWTSecret []byte
}

func NewHandler(hub *chathub.ManagerService, s storage.Storage, d *delivery.Service, pub realtime.Publisher, jwtSecret []byte) *Handler {
	return &Handler{
		Hub:       hub,
		Storage:   s,
		Delivery:  d,
		Publisher: pub,
		JWTSecret: jwtSecret,
	}
}

// AuthRequired — middleware, що валідує Bearer-токен і кладе userID у контекст.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}

		userID, err := h.validateAndGetUserID(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
