package models

import (
	"time"

	"gorm.io/gorm"
)

// UploadedImage represents one media object owned by a business.
// StoragePath is the only reliable source of folder placement; Category is a
// legacy hint used when no folder can be derived from the path.
type UploadedImage struct {
	ID          string    `json:"id" gorm:"primarykey"`
	BusinessID  string    `json:"-" gorm:"not null;index"`
	URL         string    `json:"url"`
	StoragePath string    `json:"storage_path" gorm:"not null"`
	Category    string    `json:"category,omitempty"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Format      string    `json:"format"`
	FileSize    int64     `json:"file_size"`
	UploadedAt  time.Time `json:"uploaded_at" gorm:"index"`
}

// TableName specifies the table name for the UploadedImage model
func (UploadedImage) TableName() string {
	return "business_images"
}

// BeforeCreate fills in the upload timestamp when the caller left it empty
func (m *UploadedImage) BeforeCreate(tx *gorm.DB) error {
	if m.UploadedAt.IsZero() {
		m.UploadedAt = time.Now().UTC()
	}
	return nil
}
