package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"restaurant-media-organizer/internal/config"
)

var DB *gorm.DB

// Initialize opens the postgres connection and keeps it for GetDB.
func Initialize(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if !cfg.Server.IsProduction() {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	DB = db
	return db, nil
}

func GetDB() *gorm.DB {
	return DB
}
