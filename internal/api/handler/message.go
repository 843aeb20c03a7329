package handler

import (
	"net/http"

	"marketchat/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type CreateMessageInput struct {
	RoomID   string `json:"room_id" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Kind     string `json:"kind"`
	Metadata string `json:"metadata"`
}

// CreateMessage зберігає повідомлення та запускає конвеєр доставки.
// Відповідь містить рендер повідомлення: для kind=text це єдиний шлях,
// яким відправник побачить власне повідомлення (його потік не отримує
// копії).
func (h *Handler) CreateMessage(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	var input CreateMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind := models.MessageKind(input.Kind)
	if input.Kind == "" {
		kind = models.KindText
	}
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown message kind"})
		return
	}

	// Перевірка членства відправника в кімнаті
	participant, err := h.Storage.GetParticipant(input.RoomID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check room membership"})
		return
	}
	if participant == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this room"})
		return
	}

	msg := &models.Message{
		RoomID:   input.RoomID,
		SenderID: userID,
		Kind:     kind,
		Content:  input.Content,
		Metadata: input.Metadata,
	}
	if err := h.Storage.SaveMessage(msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save message"})
		return
	}
	if err := h.Storage.TouchRoomLastMessage(msg.RoomID, msg.CreatedAt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update room"})
		return
	}

	// Повідомлення вже збережене; помилка доставки означає лише втрачений
	// realtime-пуш, тому повідомляємо її окремим полем, а не відкатом.
	if err := h.Delivery.Deliver(msg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Message saved but delivery failed",
			"message": msg,
		})
		return
	}

	render := models.NewMessageRender(msg, false)
	c.JSON(http.StatusCreated, gin.H{"message": render})
}
