package delivery

import (
	"marketchat/backend/internal/models"
	"marketchat/backend/internal/realtime"
	"marketchat/backend/internal/storage"
)

// BroadcasterService розсилає одне повідомлення в три канали кожного
// учасника кімнати:
//
//	a. потік повідомлень (room_{room}_viewer_{user}) — append;
//	b. список кімнат (viewer_{user}_room_list) — replace, завжди всім;
//	c. бейдж (viewer_{user}_badge) — replace, ніколи відправнику.
//
// Чи отримує відправник копію у (a), вирішує політика типу повідомлення.
type BroadcasterService struct {
	Storage   storage.Storage
	Publisher realtime.Publisher
}

// NewBroadcasterService Constructor
func NewBroadcasterService(s storage.Storage, pub realtime.Publisher) *BroadcasterService {
	return &BroadcasterService{Storage: s, Publisher: pub}
}

// Broadcast виконує фан-аут повідомлення для всіх учасників кімнати.
func (b *BroadcasterService) Broadcast(msg *models.Message) error {
	participants, err := b.Storage.GetParticipants(msg.RoomID)
	if err != nil {
		return err
	}

	policy := msg.Kind.Policy()
	preview := models.RoomPreview{
		RoomID:        msg.RoomID,
		LastSenderID:  msg.SenderID,
		LastKind:      msg.Kind,
		LastContent:   msg.Content,
		LastMessageAt: msg.CreatedAt,
	}

	for _, p := range participants {
		isSender := p.UserID == msg.SenderID

		if !isSender || policy.IncludeSenderInStream {
			// Копія для одержувача позначається прочитаною (він бачить її
			// зараз), копія для відправника — непрочитаною одержувачем.
			render := models.NewMessageRender(msg, !isSender)
			if err := b.Publisher.PublishAppend(models.RoomStreamChannel(msg.RoomID, p.UserID), render); err != nil {
				return err
			}
		}

		if err := b.Publisher.PublishReplace(models.RoomListChannel(p.UserID), preview); err != nil {
			return err
		}

		if !isSender {
			total, err := b.Storage.TotalUnread(p.UserID)
			if err != nil {
				return err
			}
			badge := models.BadgeUpdate{UnreadTotal: total}
			if err := b.Publisher.PublishReplace(models.BadgeChannel(p.UserID), badge); err != nil {
				return err
			}
		}
	}
	return nil
}
