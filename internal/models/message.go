package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageKind is the tagged variant of a message. Plain text messages are
// typed by users; the remaining kinds are structured "cards" created by
// other parts of the platform (deal flow, profile sharing, offers).
type MessageKind string

const (
	KindText        MessageKind = "text"
	KindSystem      MessageKind = "system"
	KindDealConfirm MessageKind = "deal_confirm"
	KindProfileCard MessageKind = "profile_card"
	KindOfferCard   MessageKind = "offer_card"
	KindContactCard MessageKind = "contact_card"
)

// KindPolicy describes how the delivery pipeline treats one message kind.
type KindPolicy struct {
	// IncludeSenderInStream: whether the sender's own message-stream
	// channel receives a copy of the message. Text messages are rendered
	// synchronously for the sender by the request that created them, so
	// re-delivery would duplicate them; every card kind is created
	// through a path that returns nothing to render, so the sender only
	// sees it via the realtime channel.
	IncludeSenderInStream bool
	// CreateNotification: whether durable notifications are created for
	// the non-sender participants. System notices and deal confirmations
	// never notify.
	CreateNotification bool
}

var kindPolicies = map[MessageKind]KindPolicy{
	KindText:        {IncludeSenderInStream: false, CreateNotification: true},
	KindSystem:      {IncludeSenderInStream: true, CreateNotification: false},
	KindDealConfirm: {IncludeSenderInStream: true, CreateNotification: false},
	KindProfileCard: {IncludeSenderInStream: true, CreateNotification: true},
	KindOfferCard:   {IncludeSenderInStream: true, CreateNotification: true},
	KindContactCard: {IncludeSenderInStream: true, CreateNotification: true},
}

// Policy returns the delivery policy for the kind. Unknown kinds fall
// back to the text policy.
func (k MessageKind) Policy() KindPolicy {
	if p, ok := kindPolicies[k]; ok {
		return p
	}
	return kindPolicies[KindText]
}

// Valid reports whether the kind is one of the known variants.
func (k MessageKind) Valid() bool {
	_, ok := kindPolicies[k]
	return ok
}

// Message is a single message in a room. Messages are immutable after
// creation.
type Message struct {
	// ID is the unique identifier for the message (UUID).
	ID string `gorm:"primaryKey" json:"id"`
	// RoomID is the room the message belongs to.
	RoomID string `gorm:"type:uuid;not null;index:idx_room_msg" json:"room_id"`
	// SenderID is the user who sent the message.
	SenderID string `gorm:"type:uuid;not null;index:idx_room_msg" json:"sender_id"`
	// Kind is the message variant, see MessageKind.
	Kind MessageKind `gorm:"type:text;not null;default:'text'" json:"kind"`
	// Content is the main content of the message.
	Content string `gorm:"type:text" json:"content"`
	// Metadata carries opaque structured data for card kinds (JSON text).
	Metadata string `gorm:"type:text" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate — GORM hook that assigns a UUID if the message has no ID yet.
func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
