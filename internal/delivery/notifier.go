package delivery

import (
	"marketchat/backend/internal/models"
	"marketchat/backend/internal/storage"
)

// NotifierService створює по одному довговічному сповіщенню для кожного
// учасника кімнати, крім відправника. Гейт діє на рівні типу
// повідомлення: system та deal_confirm не створюють сповіщень нікому.
type NotifierService struct {
	Storage storage.Storage
}

// NewNotifierService Constructor
func NewNotifierService(s storage.Storage) *NotifierService {
	return &NotifierService{Storage: s}
}

// Notify створює сповіщення для повідомлення, якщо його тип це дозволяє.
func (n *NotifierService) Notify(msg *models.Message) error {
	if !msg.Kind.Policy().CreateNotification {
		return nil
	}

	participants, err := n.Storage.GetParticipants(msg.RoomID)
	if err != nil {
		return err
	}

	for _, p := range participants {
		if p.UserID == msg.SenderID {
			continue
		}
		notification := &models.Notification{
			RecipientID: p.UserID,
			ActorID:     msg.SenderID,
			Action:      models.NotificationActionMessage,
			MessageID:   msg.ID,
		}
		if err := n.Storage.SaveNotification(notification); err != nil {
			return err
		}
	}
	return nil
}
