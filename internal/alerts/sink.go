// Package alerts reports captured exceptions to an operator channel.
// The delivery pipeline hands it every post-commit failure; losing an
// alert only costs visibility, never data.
package alerts

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sink приймає виняткові помилки конвеєра доставки.
type Sink interface {
	CaptureException(err error)
}

// LogSink — резервний sink, який лише пише помилку в лог.
type LogSink struct{}

func (LogSink) CaptureException(err error) {
	log.Printf("EXCEPTION: %v", err)
}

// TelegramSink надсилає кожну захоплену помилку в адмінський Telegram-чат.
type TelegramSink struct {
	BotAPI      *tgbotapi.BotAPI
	AdminChatID int64
}

// NewTelegramSink creates a sink bound to the admin chat.
func NewTelegramSink(token string, adminChatID int64) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("✅ Alert bot authorized on account %s", bot.Self.UserName)

	return &TelegramSink{
		BotAPI:      bot,
		AdminChatID: adminChatID,
	}, nil
}

func (s *TelegramSink) CaptureException(err error) {
	log.Printf("EXCEPTION: %v", err)

	msg := tgbotapi.NewMessage(s.AdminChatID, fmt.Sprintf("⚠️ delivery failure: %v", err))
	if _, sendErr := s.BotAPI.Send(msg); sendErr != nil {
		log.Printf("ERROR: Failed to report exception to Telegram: %v", sendErr)
	}
}
