package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room represents a conversation between two or more users on the platform.
// A room is created on first contact and is never hard-deleted; leaving a
// room only hides the participant's membership record.
type Room struct {
	// ID is the unique identifier for the room (UUID).
	ID string `gorm:"primaryKey" json:"id"`
	// LastMessageAt is the creation time of the most recent message,
	// used for ordering room lists.
	LastMessageAt *time.Time `gorm:"index" json:"last_message_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`

	Participants []Participant `gorm:"foreignKey:RoomID" json:"participants,omitempty"`
}

// BeforeCreate — GORM hook that assigns a UUID if the room has no ID yet.
func (r *Room) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

// Participant is a user's membership record in a room. It owns the
// per-viewer read-state: the unread counter, the last-read watermark and
// the soft-leave marker.
type Participant struct {
	ID string `gorm:"primaryKey" json:"id"`
	// RoomID and UserID together are unique: one membership per user per room.
	RoomID string `gorm:"type:uuid;not null;uniqueIndex:idx_room_user" json:"room_id"`
	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_room_user;index" json:"user_id"`
	// UnreadCount is the number of messages from other senders since
	// LastReadAt. It is maintained incrementally under a row lock and
	// recomputed from history when the participant is resurrected.
	UnreadCount int64 `gorm:"not null;default:0" json:"unread_count"`
	// LastReadAt is the time the participant last opened the room.
	// Nil means the participant has never read it (treated as epoch).
	LastReadAt *time.Time `json:"last_read_at"`
	// HiddenAt marks a soft-leave. A hidden participant does not see the
	// room in their list until a new message resurrects them.
	HiddenAt *time.Time `gorm:"index" json:"hidden_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// BeforeCreate — GORM hook that assigns a UUID if the participant has no ID yet.
func (p *Participant) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// IsHidden reports whether the participant has soft-left the room.
func (p *Participant) IsHidden() bool {
	return p.HiddenAt != nil
}
