package main

import (
	"fmt"
	"log"
	"os"

	"marketchat/backend/internal/config"
	"marketchat/backend/internal/storage"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Операторська CLI: перераховує unread_count усіх видимих учасників з
// історії повідомлень — той самий авторитетний перерахунок, який конвеєр
// доставки виконує при воскресінні прихованого учасника.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	if len(os.Args) < 2 || os.Args[1] != "repair-unread" {
		fmt.Println("Usage: admin repair-unread")
		os.Exit(1)
	}

	db, err := gorm.Open(postgres.Open(config.DatabaseDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db)

	repaired, err := storageSvc.RepairUnreadCounts()
	if err != nil {
		log.Fatalf("failed to repair unread counts: %v", err)
	}

	fmt.Printf("Recomputed unread counters for %d participants.\n", repaired)
}
