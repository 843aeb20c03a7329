package delivery

import (
	"log"

	"marketchat/backend/internal/models"
	"marketchat/backend/internal/realtime"
	"marketchat/backend/internal/storage"
)

// ResurrectorService повертає до видимості учасників, які раніше
// приховали кімнату: нове повідомлення має знову з'явитися в їхньому
// списку. Лічильник прихованого учасника міг задрейфувати, тому він не
// береться на віру, а перераховується з історії повідомлень — це єдина
// авторитетна точка корекції. Перерахунок ідемпотентний, тож повторний
// прохід по тому самому учаснику безпечний.
type ResurrectorService struct {
	Storage   storage.Storage
	Publisher realtime.Publisher
}

// NewResurrectorService Constructor
func NewResurrectorService(s storage.Storage, pub realtime.Publisher) *ResurrectorService {
	return &ResurrectorService{Storage: s, Publisher: pub}
}

// Resurrect відновлює всіх прихованих учасників кімнати. Кімната без
// прихованих учасників — звичайний no-op.
func (r *ResurrectorService) Resurrect(roomID string) error {
	hidden, err := r.Storage.GetHiddenParticipants(roomID)
	if err != nil {
		return err
	}

	for _, p := range hidden {
		count, err := r.Storage.CountMessagesSince(roomID, p.UserID, p.LastReadAt)
		if err != nil {
			return err
		}

		// Одним записом: hidden_at = NULL і перерахований лічильник.
		if err := r.Storage.RestoreParticipant(roomID, p.UserID, count); err != nil {
			return err
		}
		log.Printf("INFO: Resurrected participant %s in room %s (unread recomputed to %d)", p.UserID, roomID, count)

		total, err := r.Storage.TotalUnread(p.UserID)
		if err != nil {
			return err
		}
		badge := models.BadgeUpdate{UnreadTotal: total}
		if err := r.Publisher.PublishReplace(models.BadgeChannel(p.UserID), badge); err != nil {
			return err
		}
	}
	return nil
}
