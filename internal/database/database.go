package database

import (
	"fmt"
	"log/slog"

	"github.com/mrelokusa/PopQuiz/internal/config"
	"github.com/mrelokusa/PopQuiz/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)

	// TranslateError maps unique-violation errors onto gorm.ErrDuplicatedKey,
	// which the stores rely on for profile/user inserts.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	slog.Info("database connected", "host", cfg.DBHost, "db", cfg.DBName)
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Quiz{},
		&models.QuizResult{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	slog.Info("database migrated")
	return nil
}
