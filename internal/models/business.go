package models

import (
	"time"

	"gorm.io/gorm"
)

// Business is the tenant that owns a set of uploaded media.
type Business struct {
	ID             string          `json:"id" gorm:"primarykey"`
	UserID         string          `json:"user_id" gorm:"not null;index"`
	Name           string          `json:"name" gorm:"not null"`
	MediaRootID    *string         `json:"media_root_id,omitempty"`
	UploadedImages []UploadedImage `json:"uploaded_images" gorm:"foreignKey:BusinessID"`
	Folders        []string        `json:"folders,omitempty" gorm:"-"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `json:"-" gorm:"index"`
}

// MediaRoot returns the id storage paths are keyed under: media_root_id when
// set, the business id otherwise.
func (b *Business) MediaRoot() string {
	if b.MediaRootID != nil && *b.MediaRootID != "" {
		return *b.MediaRootID
	}
	return b.ID
}

// DisplayName returns the business name, or the generic root label.
func (b *Business) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return "All Images"
}

// BusinessFolder records a folder path created explicitly for a business.
// Folders holding media exist implicitly through storage paths; this table is
// what keeps empty folders alive between sessions.
type BusinessFolder struct {
	ID         uint   `gorm:"primarykey"`
	BusinessID string `gorm:"not null;uniqueIndex:idx_business_folder_path"`
	Path       string `gorm:"not null;uniqueIndex:idx_business_folder_path"`
	CreatedAt  time.Time
}

// TableName specifies the table name for the BusinessFolder model
func (BusinessFolder) TableName() string {
	return "business_folders"
}
