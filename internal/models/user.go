package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq" // Необхідний для pq.StringArray
	"gorm.io/gorm"
)

// User представляє користувача платформи.
// Містить публічний профіль та теги інтересів для маркетплейсу.
type User struct {
	ID          string         `gorm:"primaryKey" json:"id"` // UUID
	Username    string         `gorm:"uniqueIndex" json:"username"`
	DisplayName string         `json:"display_name"`
	AvatarURL   string         `json:"avatar_url,omitempty"`
	Interests   pq.StringArray `gorm:"type:text[]" json:"interests,omitempty"` // Для зберігання тегів
	RatingScore int            `json:"rating_score"`                           // Рейтинг продавця/покупця
}

// BeforeCreate — це хук GORM, який викликається перед створенням запису.
// Він генерує новий UUID для користувача, якщо ID ще не встановлено.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
