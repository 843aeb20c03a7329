package handler

import (
	"net/http"

	"marketchat/backend/internal/chathub"
	"marketchat/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Дозволяє з'єднання з будь-якого домену. У продакшені налаштувати!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket оновлює HTTP-з'єднання до WebSocket
func (h *Handler) ServeWebSocket(c *gin.Context) {
	// 1. Отримати userID з JWT
	authHeader := c.GetHeader("Authorization")
	tokenString := ""
	if len(authHeader) >= 7 && authHeader[:7] == "Bearer " {
		tokenString = authHeader[7:]
	} else {
		// Браузерні WebSocket-клієнти не можуть виставити заголовок
		tokenString = c.Query("token")
	}
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return
	}

	// 2. Валідація та отримання userID з JWT
	userID, err := h.validateAndGetUserID(tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	// 3. Створення нового клієнта
	client := &chathub.WebSocketClient{
		Hub:    h.Hub,
		UserID: userID,
		Conn:   conn,
		Send:   make(chan models.Envelope, 256),
	}

	// 4. Реєстрація клієнта в хабі та запуск pumps
	h.Hub.RegisterCh <- client
	client.Run()
}
