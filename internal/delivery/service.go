// Package delivery implements the message delivery pipeline: for every
// persisted message it updates per-participant read-state inside one
// transaction, then fans the event out to the realtime channels, creates
// notifications and resurrects hidden participants.
package delivery

import (
	"fmt"
	"log"
	"time"

	"marketchat/backend/internal/alerts"
	"marketchat/backend/internal/models"
	"marketchat/backend/internal/realtime"
	"marketchat/backend/internal/storage"
)

// Service — оркестратор доставки одного збереженого повідомлення.
//
// Порядок фіксований: [транзакція: скидання стану відправника + інкремент
// інших] → commit → broadcast → notifications → resurrection. Кроки після
// commit — best-effort: їхня помилка логуються, звітується в Sink і
// повертається викликачу, але стан читання вже зафіксовано.
type Service struct {
	Storage     storage.Storage
	Broadcaster *BroadcasterService
	Notifier    *NotifierService
	Resurrector *ResurrectorService
	Sink        alerts.Sink
}

// NewService Constructor
func NewService(s storage.Storage, pub realtime.Publisher, sink alerts.Sink) *Service {
	return &Service{
		Storage:     s,
		Broadcaster: NewBroadcasterService(s, pub),
		Notifier:    NewNotifierService(s),
		Resurrector: NewResurrectorService(s, pub),
		Sink:        sink,
	}
}

// Deliver проводить збережене повідомлення через увесь конвеєр.
// Помилка всередині транзакції відкочує стан читання повністю;
// повідомлення лишається збереженим, і викликач може повторити доставку.
func (d *Service) Deliver(msg *models.Message) error {
	now := time.Now()

	err := d.Storage.Transaction(func(tx storage.Storage) error {
		if err := tx.MarkRoomRead(msg.RoomID, msg.SenderID, now); err != nil {
			return err
		}
		return tx.IncrementUnread(msg.RoomID, msg.SenderID)
	})
	if err != nil {
		return fmt.Errorf("read-state update for room %s: %w", msg.RoomID, err)
	}

	// Публікації виконуються строго після commit і поза блокуванням:
	// підписник ніколи не бачить лічильник, який ще може відкотитися.
	if err := d.fanOut(msg); err != nil {
		log.Printf("ERROR: Post-commit delivery for message %s: %v", msg.ID, err)
		d.Sink.CaptureException(err)
		return err
	}
	return nil
}

func (d *Service) fanOut(msg *models.Message) error {
	if err := d.Broadcaster.Broadcast(msg); err != nil {
		return fmt.Errorf("broadcast message %s: %w", msg.ID, err)
	}
	if err := d.Notifier.Notify(msg); err != nil {
		return fmt.Errorf("notify message %s: %w", msg.ID, err)
	}
	if err := d.Resurrector.Resurrect(msg.RoomID); err != nil {
		return fmt.Errorf("resurrect participants in room %s: %w", msg.RoomID, err)
	}
	return nil
}
