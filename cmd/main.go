package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"marketchat/backend/internal/alerts"
	"marketchat/backend/internal/api/handler"
	"marketchat/backend/internal/chathub"
	"marketchat/backend/internal/config"
	"marketchat/backend/internal/delivery"
	"marketchat/backend/internal/models"
	"marketchat/backend/internal/realtime"
	"marketchat/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies() (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	db, err := gorm.Open(postgres.Open(config.DatabaseDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: "",
		DB:       0,
	})

	// Перевірка з'єднання Redis
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Міграції (Створення таблиць)
	err = db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.Participant{},
		&models.Message{},
		&models.Notification{},
	)
	if err != nil {
		// Якщо міграція не спрацювала, зупиняємо додаток
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func setupSink() alerts.Sink {
	token := config.TelegramBotToken()
	chatID := config.AdminChatID()
	if token == "" || chatID == 0 {
		log.Println("Warning: TELEGRAM_BOT_TOKEN/ADMIN_CHAT_ID not set, delivery exceptions go to log only")
		return alerts.LogSink{}
	}

	sink, err := alerts.NewTelegramSink(token, chatID)
	if err != nil {
		log.Printf("ERROR: Failed to start Telegram alert sink: %v", err)
		return alerts.LogSink{}
	}
	return sink
}

func main() {
	log.Println("Starting MarketChat Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	// 1. Ініціалізація залежностей
	db, rdb := setupDependencies()
	s := storage.NewStorageService(db)
	publisher := realtime.NewRedisPublisher(rdb)
	sink := setupSink()

	// 2. Конвеєр доставки та realtime-хаб
	deliverySvc := delivery.NewService(s, publisher, sink)
	hub := chathub.NewManagerService()
	hub.StartPubSubListener(publisher)

	// 3. Запуск основних Goroutines
	go hub.Run() // Головний диспетчер realtime-підписників

	// 4. Налаштування Gin та роутингу
	r := gin.Default()
	h := handler.NewHandler(hub, s, deliverySvc, publisher, config.JWTSecret())

	// Роути
	r.POST("/auth/login", h.Login)
	r.GET("/ws", h.ServeWebSocket) // WebSocket Upgrade

	api := r.Group("/api", h.AuthRequired())
	{
		api.POST("/rooms", h.CreateRoom)
		api.GET("/rooms", h.ListRooms)
		api.GET("/rooms/:id/messages", h.GetRoomMessages)
		api.POST("/rooms/:id/read", h.MarkRoomRead)
		api.POST("/rooms/:id/hide", h.HideRoom)
		api.POST("/messages", h.CreateMessage)
		api.GET("/notifications", h.ListNotifications)
	}

	// Запуск HTTP-сервера
	server := &http.Server{
		Addr:           config.ServerAddr(),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
