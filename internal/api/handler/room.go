package handler

import (
	"net/http"
	"time"

	"marketchat/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type CreateRoomInput struct {
	PeerID string `json:"peer_id" binding:"required"`
}

// CreateRoom повертає кімнату з указаним користувачем, створюючи її при
// першому контакті.
func (h *Handler) CreateRoom(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	var input CreateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.PeerID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot open a room with yourself"})
		return
	}

	peer, err := h.Storage.GetUserByID(input.PeerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up peer"})
		return
	}
	if peer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Peer not found"})
		return
	}

	room, err := h.Storage.FindOrCreateRoom(userID, input.PeerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"room": room})
}

// ListRooms повертає видимі кімнати користувача з лічильниками непрочитаних.
func (h *Handler) ListRooms(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	memberships, err := h.Storage.GetRoomsForViewer(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch rooms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rooms": memberships})
}

// GetRoomMessages повертає історію повідомлень кімнати.
func (h *Handler) GetRoomMessages(c *gin.Context) {
	userID := c.MustGet("userID").(string)
	roomID := c.Param("id")

	participant, err := h.Storage.GetParticipant(roomID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check room membership"})
		return
	}
	if participant == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this room"})
		return
	}

	messages, err := h.Storage.GetRoomMessages(roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// MarkRoomRead скидає лічильник непрочитаних кімнати для користувача та
// публікує оновлений глобальний бейдж.
func (h *Handler) MarkRoomRead(c *gin.Context) {
	userID := c.MustGet("userID").(string)
	roomID := c.Param("id")

	participant, err := h.Storage.GetParticipant(roomID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check room membership"})
		return
	}
	if participant == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this room"})
		return
	}

	if err := h.Storage.MarkRoomRead(roomID, userID, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark room read"})
		return
	}

	total, err := h.Storage.TotalUnread(userID)
	if err == nil {
		badge := models.BadgeUpdate{UnreadTotal: total}
		if pubErr := h.Publisher.PublishReplace(models.BadgeChannel(userID), badge); pubErr != nil {
			// Бейдж добереться з наступною подією.
			c.JSON(http.StatusOK, gin.H{"status": "read"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

// HideRoom м'яко видаляє кімнату зі списку користувача. Кімната
// повернеться, щойно в ній з'явиться нове повідомлення.
func (h *Handler) HideRoom(c *gin.Context) {
	userID := c.MustGet("userID").(string)
	roomID := c.Param("id")

	participant, err := h.Storage.GetParticipant(roomID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check room membership"})
		return
	}
	if participant == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this room"})
		return
	}

	if err := h.Storage.HideParticipant(roomID, userID, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hide room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "hidden"})
}
