// Package config reads the runtime configuration from the environment.
// The .env file is loaded by main via godotenv before any of these
// accessors run.
package config

import (
	"fmt"
	"os"
	"strconv"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// DatabaseDSN збирає DSN для PostgreSQL зі змінних середовища.
func DatabaseDSN() string {
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		return dsn
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "user"),
		getEnv("DB_PASSWORD", "password"),
		getEnv("DB_NAME", "marketchatdb"),
		getEnv("DB_PORT", "5432"),
	)
}

// RedisAddr повертає адресу Redis для realtime-транспорту.
func RedisAddr() string {
	return getEnv("REDIS_ADDR", "localhost:6379")
}

// ServerAddr повертає адресу HTTP-сервера.
func ServerAddr() string {
	return getEnv("SERVER_ADDR", ":8080")
}

// JWTSecret повертає секрет для підпису viewer-токенів.
func JWTSecret() []byte {
	return []byte(getEnv("JWT_SECRET", "dev-only-secret"))
}

// TelegramBotToken — токен бота для каналу алертів (порожній — алерти в лог).
func TelegramBotToken() string {
	return os.Getenv("TELEGRAM_BOT_TOKEN")
}

// AdminChatID — Telegram-чат, куди надсилаються захоплені помилки доставки.
func AdminChatID() int64 {
	id, err := strconv.ParseInt(os.Getenv("ADMIN_CHAT_ID"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
