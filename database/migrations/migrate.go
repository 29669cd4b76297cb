package migrations

import (
	"restaurant-media-organizer/internal/database"
	"restaurant-media-organizer/internal/models"
)

func Migrate() error {
	db := database.GetDB()

	return db.AutoMigrate(
		&models.Business{},
		&models.UploadedImage{},
		&models.BusinessFolder{},
	)
}
