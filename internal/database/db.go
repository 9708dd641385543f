package database

import (
	"log"

	"lexfirm-backend/internal/config"
	"lexfirm-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	Migrate(DB)

	log.Println("database connected, migration complete")
}

// Migrate runs AutoMigrate for every entity. Split out so tests can run it
// against their own gorm.DB.
func Migrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Lawyer{},
		&models.User{},
		&models.Client{},
		&models.Matter{},
		&models.TimeEntry{},
		&models.ActivityLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}
