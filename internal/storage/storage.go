package storage

import (
	"errors"
	"log"
	"time"

	"marketchat/backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Storage — контракт шару збереження, який споживає конвеєр доставки
// та HTTP-обробники. Реалізація — PostgreSQL через GORM.
type Storage interface {
	SaveUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	FindOrCreateUser(username string) (*models.User, error)

	SaveRoom(room *models.Room) error
	GetRoomByID(roomID string) (*models.Room, error)
	FindOrCreateRoom(userID, peerID string) (*models.Room, error)
	GetRoomsForViewer(userID string) ([]models.Participant, error)
	TouchRoomLastMessage(roomID string, at time.Time) error

	SaveMessage(msg *models.Message) error
	GetRoomMessages(roomID string) ([]models.Message, error)

	GetParticipants(roomID string) ([]models.Participant, error)
	GetParticipant(roomID, userID string) (*models.Participant, error)
	GetHiddenParticipants(roomID string) ([]models.Participant, error)
	HideParticipant(roomID, userID string, at time.Time) error
	RestoreParticipant(roomID, userID string, unreadCount int64) error
	MarkRoomRead(roomID, userID string, at time.Time) error
	IncrementUnread(roomID, senderID string) error
	CountMessagesSince(roomID, excludeSenderID string, since *time.Time) (int64, error)
	TotalUnread(userID string) (int64, error)

	SaveNotification(n *models.Notification) error
	GetNotifications(recipientID string) ([]models.Notification, error)

	// Transaction виконує fn в одній транзакції БД. Storage, переданий у
	// fn, працює на транзакційному з'єднанні; будь-яка помилка відкочує
	// всі зміни.
	Transaction(fn func(tx Storage) error) error
}

type Service struct {
	DB *gorm.DB
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Transaction обгортає fn у gorm-транзакцію.
func (s *Service) Transaction(fn func(tx Storage) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return fn(&Service{DB: tx})
	})
}

// SaveUser зберігає користувача в PostgreSQL
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindOrCreateUser шукає користувача за username або створює нового.
func (s *Service) FindOrCreateUser(username string) (*models.User, error) {
	var user models.User
	defaults := models.User{Username: username, DisplayName: username}

	result := s.DB.Where("username = ?", username).FirstOrCreate(&user, defaults)
	if result.Error != nil {
		log.Printf("ERROR: Failed to find or create user %s: %v", username, result.Error)
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("INFO: New user %s saved to database (ID: %s).", username, user.ID)
	}
	return &user, nil
}

// SaveRoom зберігає кімнату в PostgreSQL
func (s *Service) SaveRoom(room *models.Room) error {
	return s.DB.Save(room).Error
}

func (s *Service) GetRoomByID(roomID string) (*models.Room, error) {
	var room models.Room

	err := s.DB.Preload("Participants").First(&room, "id = ?", roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("room not found")
	}
	if err != nil {
		log.Printf("ERROR: Failed to get room %s: %v", roomID, err)
		return nil, err
	}
	return &room, nil
}

// FindOrCreateRoom повертає кімнату між двома користувачами, створюючи її
// разом з обома учасниками при першому контакті.
func (s *Service) FindOrCreateRoom(userID, peerID string) (*models.Room, error) {
	var existing models.Participant
	err := s.DB.
		Where("user_id = ? AND room_id IN (?)", userID,
			s.DB.Model(&models.Participant{}).Select("room_id").Where("user_id = ?", peerID)).
		First(&existing).Error
	if err == nil {
		return s.GetRoomByID(existing.RoomID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room := &models.Room{
		Participants: []models.Participant{
			{UserID: userID},
			{UserID: peerID},
		},
	}
	if err := s.DB.Create(room).Error; err != nil {
		log.Printf("ERROR: Failed to create room for %s and %s: %v", userID, peerID, err)
		return nil, err
	}
	return room, nil
}

// GetRoomsForViewer повертає видимі членства користувача, найсвіжіші кімнати першими.
func (s *Service) GetRoomsForViewer(userID string) ([]models.Participant, error) {
	var memberships []models.Participant
	err := s.DB.
		Joins("JOIN rooms ON rooms.id = participants.room_id").
		Where("participants.user_id = ? AND participants.hidden_at IS NULL", userID).
		Order("rooms.last_message_at DESC NULLS LAST").
		Find(&memberships).Error
	if err != nil {
		log.Printf("ERROR: Failed to list rooms for user %s: %v", userID, err)
		return nil, err
	}
	return memberships, nil
}

// TouchRoomLastMessage оновлює відмітку останнього повідомлення кімнати.
func (s *Service) TouchRoomLastMessage(roomID string, at time.Time) error {
	return s.DB.Model(&models.Room{}).
		Where("id = ?", roomID).
		UpdateColumn("last_message_at", at).Error
}

// SaveMessage зберігає повідомлення в PostgreSQL. msg.ID буде заповнено GORM-хуком.
func (s *Service) SaveMessage(msg *models.Message) error {
	if err := s.DB.Create(msg).Error; err != nil {
		log.Printf("ERROR: Failed to save message for room %s: %v", msg.RoomID, err)
		return err
	}
	return nil
}

// GetRoomMessages отримує історію повідомлень для кімнати
func (s *Service) GetRoomMessages(roomID string) ([]models.Message, error) {
	var messages []models.Message
	if err := s.DB.Where("room_id = ?", roomID).Order("created_at asc").Find(&messages).Error; err != nil {
		log.Printf("ERROR: Failed to get messages for room %s: %v", roomID, err)
		return nil, err
	}
	return messages, nil
}

func (s *Service) GetParticipants(roomID string) ([]models.Participant, error) {
	var participants []models.Participant
	if err := s.DB.Where("room_id = ?", roomID).Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}

func (s *Service) GetParticipant(roomID, userID string) (*models.Participant, error) {
	var p models.Participant
	err := s.DB.Where("room_id = ? AND user_id = ?", roomID, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetHiddenParticipants повертає учасників кімнати, які "пішли" з неї (hidden_at не NULL).
func (s *Service) GetHiddenParticipants(roomID string) ([]models.Participant, error) {
	var participants []models.Participant
	err := s.DB.
		Where("room_id = ? AND hidden_at IS NOT NULL", roomID).
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// HideParticipant м'яко видаляє користувача з кімнати.
func (s *Service) HideParticipant(roomID, userID string, at time.Time) error {
	return s.DB.Model(&models.Participant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		UpdateColumn("hidden_at", at).Error
}

// RestoreParticipant одним записом знімає hidden_at та виставляє
// перерахований лічильник непрочитаних.
func (s *Service) RestoreParticipant(roomID, userID string, unreadCount int64) error {
	return s.DB.Model(&models.Participant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		UpdateColumns(map[string]interface{}{
			"hidden_at":    nil,
			"unread_count": unreadCount,
		}).Error
}

// MarkRoomRead скидає стан читання користувача прямим записом колонок
// (виконується на кожній відправці, тому обходимо хуки та валідацію).
func (s *Service) MarkRoomRead(roomID, userID string, at time.Time) error {
	return s.DB.Model(&models.Participant{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		UpdateColumns(map[string]interface{}{
			"last_read_at": at,
			"unread_count": 0,
		}).Error
}

// IncrementUnread атомарно збільшує unread_count усіх інших учасників
// кімнати. Рядки спершу блокуються (SELECT ... FOR UPDATE), тож два
// конкурентні інкременти в одній кімнаті серіалізуються; кімнати між
// собою не конкурують. Кімната без інших учасників — не помилка.
func (s *Service) IncrementUnread(roomID, senderID string) error {
	var ids []string
	err := s.DB.Model(&models.Participant{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("room_id = ? AND user_id <> ?", roomID, senderID).
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	return s.DB.Model(&models.Participant{}).
		Where("id IN ?", ids).
		UpdateColumn("unread_count", gorm.Expr("unread_count + 1")).Error
}

// CountMessagesSince рахує повідомлення кімнати від інших відправників,
// створені після since (nil трактується як початок епохи).
func (s *Service) CountMessagesSince(roomID, excludeSenderID string, since *time.Time) (int64, error) {
	query := s.DB.Model(&models.Message{}).
		Where("room_id = ? AND sender_id <> ?", roomID, excludeSenderID)
	if since != nil {
		query = query.Where("created_at > ?", *since)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TotalUnread повертає сумарний лічильник непрочитаних користувача по
// всіх видимих кімнатах (значення для глобального бейджа).
func (s *Service) TotalUnread(userID string) (int64, error) {
	var total int64
	err := s.DB.Model(&models.Participant{}).
		Where("user_id = ? AND hidden_at IS NULL", userID).
		Select("COALESCE(SUM(unread_count), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// SaveNotification створює запис сповіщення.
func (s *Service) SaveNotification(n *models.Notification) error {
	if n.Action == "" {
		n.Action = models.NotificationActionMessage
	}
	if err := s.DB.Create(n).Error; err != nil {
		log.Printf("ERROR: Failed to save notification for user %s: %v", n.RecipientID, err)
		return err
	}
	return nil
}

// GetNotifications повертає останні сповіщення користувача.
func (s *Service) GetNotifications(recipientID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// RepairUnreadCounts перераховує unread_count усіх видимих учасників з
// історії повідомлень одним запитом. Використовується адмінською CLI
// для усунення дрейфу лічильників.
func (s *Service) RepairUnreadCounts() (int64, error) {
	rawSQL := `
        UPDATE participants p
        SET unread_count = (
            SELECT COUNT(*)
            FROM messages m
            WHERE m.room_id = p.room_id
              AND m.sender_id <> p.user_id
              AND m.created_at > COALESCE(p.last_read_at, 'epoch'::timestamptz)
        )
        WHERE p.hidden_at IS NULL
    `

	result := s.DB.Exec(rawSQL)
	if result.Error != nil {
		log.Printf("ERROR: Failed to repair unread counts: %v", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
