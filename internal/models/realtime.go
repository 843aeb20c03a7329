package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Envelope actions understood by realtime subscribers.
const (
	ActionAppend  = "append"  // append the rendered item to the channel's collection
	ActionReplace = "replace" // replace the channel's current value
)

// Envelope is the wire format published to realtime channels. Data carries
// a render spec with enough information for a subscriber to draw the update.
type Envelope struct {
	Action  string          `json:"action"`
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
}

// RoomStreamChannel names the per-(room, viewer) message stream.
func RoomStreamChannel(roomID, userID string) string {
	return fmt.Sprintf("room_%s_viewer_%s", roomID, userID)
}

// RoomListChannel names the per-viewer room list.
func RoomListChannel(userID string) string {
	return fmt.Sprintf("viewer_%s_room_list", userID)
}

// BadgeChannel names the per-viewer global unread badge.
func BadgeChannel(userID string) string {
	return fmt.Sprintf("viewer_%s_badge", userID)
}

// ChannelViewer extracts the viewer user ID a channel is addressed to.
// Returns "" for channel names that don't follow the naming scheme.
func ChannelViewer(channel string) string {
	if rest, ok := strings.CutPrefix(channel, "viewer_"); ok {
		if id, ok := strings.CutSuffix(rest, "_room_list"); ok {
			return id
		}
		if id, ok := strings.CutSuffix(rest, "_badge"); ok {
			return id
		}
		return ""
	}
	if strings.HasPrefix(channel, "room_") {
		if idx := strings.LastIndex(channel, "_viewer_"); idx >= 0 {
			return channel[idx+len("_viewer_"):]
		}
	}
	return ""
}

// MessageRender is the per-viewer rendering of a message for the message
// stream. Read is transient presentation state, never persisted: the copy
// rendered for a recipient is marked read (they are seeing it now), the
// copy rendered for the sender is marked unread (the recipient hasn't).
type MessageRender struct {
	MessageID string      `json:"message_id"`
	RoomID    string      `json:"room_id"`
	SenderID  string      `json:"sender_id"`
	Kind      MessageKind `json:"kind"`
	Content   string      `json:"content"`
	Metadata  string      `json:"metadata,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	Read      bool        `json:"read"`
}

// NewMessageRender builds the stream render of msg for one viewer.
func NewMessageRender(msg *Message, read bool) MessageRender {
	return MessageRender{
		MessageID: msg.ID,
		RoomID:    msg.RoomID,
		SenderID:  msg.SenderID,
		Kind:      msg.Kind,
		Content:   msg.Content,
		Metadata:  msg.Metadata,
		CreatedAt: msg.CreatedAt,
		Read:      read,
	}
}

// RoomPreview replaces a single entry in a viewer's room list.
type RoomPreview struct {
	RoomID        string      `json:"room_id"`
	LastSenderID  string      `json:"last_sender_id"`
	LastKind      MessageKind `json:"last_kind"`
	LastContent   string      `json:"last_content"`
	LastMessageAt time.Time   `json:"last_message_at"`
}

// BadgeUpdate replaces a viewer's global unread indicator with their
// total unread count across all visible rooms.
type BadgeUpdate struct {
	UnreadTotal int64 `json:"unread_total"`
}
