package chathub

import (
	"encoding/json"
	"log"

	"marketchat/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Subscriber — джерело Pub/Sub подій для хаба (реалізується
// realtime.RedisPublisher).
type Subscriber interface {
	Subscribe(patterns ...string) *redis.PubSub
}

// StartPubSubListener запускає goroutine, яка слухає Redis Pub/Sub.
// Хаб підписується на всі канали доставки: потоки повідомлень кімнат,
// списки кімнат і бейджі.
func (m *ManagerService) StartPubSubListener(sub Subscriber) {
	go func() {
		pubsub := sub.Subscribe("room_*", "viewer_*")
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var env models.Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("Error unmarshalling Redis envelope: %v", err)
				continue
			}
			if env.Channel == "" {
				env.Channel = msg.Channel
			}

			// Надсилаємо конверт у головний цикл хаба
			m.PubSubCh <- env
		}
	}()
}
