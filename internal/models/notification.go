package models

import "gorm.io/gorm"

// NotificationActionMessage is the action recorded for message notifications.
const NotificationActionMessage = "message"

// Notification is a durable per-recipient record of an event, consumed by
// the notification feed and by the external push dispatcher.
type Notification struct {
	gorm.Model

	// RecipientID is the user the notification is addressed to.
	RecipientID string `gorm:"type:uuid;not null;index" json:"recipient_id"`
	// ActorID is the user whose action produced the notification.
	ActorID string `gorm:"type:uuid;not null" json:"actor_id"`
	// Action names the event, e.g. "message".
	Action string `gorm:"type:text;not null" json:"action"`
	// MessageID is a non-owning reference to the message that triggered
	// the notification.
	MessageID string `gorm:"type:uuid;index" json:"message_id"`
	// IsRead tracks whether the recipient has opened the notification.
	IsRead bool `gorm:"default:false;index" json:"is_read"`
}
