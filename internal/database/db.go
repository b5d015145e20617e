package database

import (
	"log"

	"github.com/pingv2/ping-service/internal/config"
	"github.com/pingv2/ping-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	var err error

	// TranslateError turns driver-specific unique-index violations into
	// gorm.ErrDuplicatedKey, which the repositories rely on for atomic
	// username-uniqueness enforcement.
	DB, err = gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("Failed to connect database:", err)
	}

	log.Println("Database connected successfully")
}

func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Module{},
		&models.ModuleRole{},
	)
	if err != nil {
		log.Fatal("Migration failed:", err)
	}

	log.Println("Database migration completed")
}
