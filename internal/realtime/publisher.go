// Package realtime publishes delivery events to the pub/sub transport.
// Each event is a JSON Envelope on a named channel; subscribers (the
// websocket hub on this or any other instance) render it for the viewer.
package realtime

import (
	"context"
	"encoding/json"

	"marketchat/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Publisher is the transport contract the delivery pipeline writes to.
type Publisher interface {
	// PublishAppend надсилає елемент, який підписник додає до колекції каналу.
	PublishAppend(channel string, payload interface{}) error
	// PublishReplace надсилає значення, яке повністю замінює стан каналу.
	PublishReplace(channel string, payload interface{}) error
}

// RedisPublisher публікує конверти в Redis Pub/Sub.
type RedisPublisher struct {
	Redis *redis.Client
	Ctx   context.Context
}

// NewRedisPublisher Constructor
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

func (p *RedisPublisher) PublishAppend(channel string, payload interface{}) error {
	return p.publish(models.ActionAppend, channel, payload)
}

func (p *RedisPublisher) PublishReplace(channel string, payload interface{}) error {
	return p.publish(models.ActionReplace, channel, payload)
}

func (p *RedisPublisher) publish(action, channel string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	env := models.Envelope{
		Action:  action,
		Channel: channel,
		Data:    data,
	}
	envBytes, err := json.Marshal(env)
	if err != nil {
		return err
	}

	return p.Redis.Publish(p.Ctx, channel, string(envBytes)).Err()
}

// Subscribe підписується на канали за шаблонами (PSubscribe).
// Використовується хабом для отримання всіх подій доставки.
func (p *RedisPublisher) Subscribe(patterns ...string) *redis.PubSub {
	return p.Redis.PSubscribe(p.Ctx, patterns...)
}
