package library

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"restaurant-media-organizer/internal/models"
	"restaurant-media-organizer/internal/organizer"
	"restaurant-media-organizer/internal/storage"
	"restaurant-media-organizer/internal/utils"
	"restaurant-media-organizer/internal/websocket"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidPath  = errors.New("invalid folder path")
	ErrInvalidInput = errors.New("invalid input")
)

// Notifier is told about every committed change to a business's media.
type Notifier interface {
	MediaUpdated(userID, businessID string, action websocket.Action, data map[string]interface{})
}

// UploadFile is one file of an upload request.
type UploadFile struct {
	Filename string
	Data     []byte
}

// ExportRow is one line of a media export.
type ExportRow struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Folder     string    `json:"folder"`
	URL        string    `json:"url"`
	Format     string    `json:"format"`
	FileSize   int64     `json:"file_size"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Service owns the businesses' media: rows in postgres, objects in storage.
// Folder membership is derived from storage paths exactly as the organizer
// derives it.
type Service struct {
	db       *gorm.DB
	store    storage.Storage
	notifier Notifier
	logger   *zap.Logger
}

func NewService(db *gorm.DB, store storage.Storage, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:       db,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *Service) notify(b *models.Business, action websocket.Action, data map[string]interface{}) {
	if s.notifier != nil {
		s.notifier.MediaUpdated(b.UserID, b.ID, action, data)
	}
}

// loadBusiness fetches a business owned by userID with its images, oldest
// first.
func (s *Service) loadBusiness(ctx context.Context, db *gorm.DB, userID, businessID string) (*models.Business, error) {
	var b models.Business
	err := db.WithContext(ctx).
		Preload("UploadedImages", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("uploaded_at ASC, id ASC")
		}).
		Where("id = ? AND user_id = ?", businessID, userID).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("business %s: %w", businessID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load business: %w", err)
	}
	return &b, nil
}

func (s *Service) loadFolders(ctx context.Context, db *gorm.DB, businessID string) ([]models.BusinessFolder, error) {
	var folders []models.BusinessFolder
	if err := db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at ASC, id ASC").
		Find(&folders).Error; err != nil {
		return nil, fmt.Errorf("failed to load folders: %w", err)
	}
	return folders, nil
}

// GetBusiness returns the business with its images and registered folders.
func (s *Service) GetBusiness(ctx context.Context, userID, businessID string) (*models.Business, error) {
	b, err := s.loadBusiness(ctx, s.db, userID, businessID)
	if err != nil {
		return nil, err
	}
	folders, err := s.loadFolders(ctx, s.db, businessID)
	if err != nil {
		return nil, err
	}
	b.Folders = make([]string, 0, len(folders))
	for _, f := range folders {
		b.Folders = append(b.Folders, f.Path)
	}
	return b, nil
}

// UploadImages stores each file under category and records it. Objects of a
// failed upload are removed again.
func (s *Service) UploadImages(ctx context.Context, userID, businessID, category string, files []UploadFile) ([]models.UploadedImage, error) {
	logger := s.logger.With(
		zap.String("method", "UploadImages"),
		zap.String("business_id", businessID),
	)

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no images provided", ErrInvalidInput)
	}
	folder := organizer.Uncategorized
	if organizer.NormalizeFolderPath(category) != "" {
		norm, err := ValidateFolderPath(category)
		if err != nil {
			return nil, err
		}
		folder = norm
	}

	b, err := s.loadBusiness(ctx, s.db, userID, businessID)
	if err != nil {
		return nil, err
	}
	root := b.MediaRoot()

	uploaded := make([]models.UploadedImage, 0, len(files))
	var stored []string
	cleanup := func() {
		for _, key := range stored {
			if err := s.store.Delete(context.WithoutCancel(ctx), key); err != nil {
				logger.Warn("Failed to remove orphaned object", zap.String("key", key), zap.Error(err))
			}
		}
	}

	for _, f := range files {
		info, err := utils.ProbeImage(f.Data)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInput, f.Filename, err)
		}

		id := uuid.NewString()
		key := objectKey(b.UserID, root, folder, id+utils.ExtensionFor(f.Filename, info.Format))
		if err := s.store.Put(ctx, key, bytes.NewReader(f.Data), info.Size, info.MimeType); err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to store %s: %w", f.Filename, err)
		}
		stored = append(stored, key)

		uploaded = append(uploaded, models.UploadedImage{
			ID:          id,
			BusinessID:  b.ID,
			URL:         s.store.PublicURL(key),
			StoragePath: key,
			Category:    folder,
			Width:       info.Width,
			Height:      info.Height,
			Format:      info.Format,
			FileSize:    info.Size,
		})
	}

	if err := s.db.WithContext(ctx).Create(&uploaded).Error; err != nil {
		cleanup()
		return nil, fmt.Errorf("failed to save images: %w", err)
	}

	logger.Info("Images uploaded", zap.Int("count", len(uploaded)), zap.String("folder", folder))
	s.notify(b, websocket.ActionUpload, map[string]interface{}{"count": len(uploaded), "folder_path": folder})
	return uploaded, nil
}

// DeleteImage removes one image row and its object.
func (s *Service) DeleteImage(ctx context.Context, userID, businessID, imageID string) error {
	logger := s.logger.With(
		zap.String("method", "DeleteImage"),
		zap.String("business_id", businessID),
		zap.String("image_id", imageID),
	)

	b, err := s.loadBusiness(ctx, s.db, userID, businessID)
	if err != nil {
		return err
	}

	var img models.UploadedImage
	err = s.db.WithContext(ctx).Where("id = ? AND business_id = ?", imageID, b.ID).First(&img).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("image %s: %w", imageID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	if err := s.db.WithContext(ctx).Delete(&img).Error; err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	s.deleteObjects(ctx, logger, []string{img.StoragePath})

	logger.Info("Image deleted")
	s.notify(b, websocket.ActionDeleteImage, map[string]interface{}{"image_id": imageID})
	return nil
}

// CreateFolder registers folderPath so it exists while empty. Creating an
// existing folder succeeds.
func (s *Service) CreateFolder(ctx context.Context, userID, businessID, folderPath string) error {
	norm, err := ValidateFolderPath(folderPath)
	if err != nil {
		return err
	}
	b, err := s.loadBusiness(ctx, s.db, userID, businessID)
	if err != nil {
		return err
	}

	if err := s.registerFolder(s.db.WithContext(ctx), b.ID, norm); err != nil {
		return err
	}

	s.logger.Info("Folder created",
		zap.String("method", "CreateFolder"),
		zap.String("business_id", b.ID),
		zap.String("folder_path", norm),
	)
	s.notify(b, websocket.ActionCreateFolder, map[string]interface{}{"folder_path": norm})
	return nil
}

func (s *Service) registerFolder(tx *gorm.DB, businessID, path string) error {
	folder := models.BusinessFolder{BusinessID: businessID, Path: path}
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&folder).Error
	if err != nil {
		return fmt.Errorf("failed to register folder: %w", err)
	}
	return nil
}

// RenameFolder moves oldPath and everything below it to newPath. Objects are
// copied before the rows change and the old copies are removed after commit.
func (s *Service) RenameFolder(ctx context.Context, userID, businessID, oldPath, newPath string) (*models.Business, error) {
	logger := s.logger.With(
		zap.String("method", "RenameFolder"),
		zap.String("business_id", businessID),
	)

	oldNorm, err := ValidateFolderPath(oldPath)
	if err != nil {
		return nil, err
	}
	newNorm, err := ValidateFolderPath(newPath)
	if err != nil {
		return nil, err
	}

	b, err := s.loadBusiness(ctx, s.db, userID, businessID)
	if err != nil {
		return nil, err
	}
	if oldNorm == newNorm {
		return s.GetBusiness(ctx, userID, businessID)
	}

	folders, err := s.loadFolders(ctx, s.db, b.ID)
	if err != nil {
		return nil, err
	}
	moves := planRename(b, oldNorm, newNorm)
	if len(moves) == 0 && !anyFolderWithin(folders, oldNorm) && len(imagesWithin(b, oldNorm)) == 0 {
		return nil, fmt.Errorf("folder %s: %w", oldNorm, ErrNotFound)
	}

	if err := s.copyObjects(ctx, logger, moves); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.applyRelocations(tx, moves); err != nil {
			return err
		}
		for _, f := range folders {
			renamed, ok := renamedFolder(f.Path, oldNorm, newNorm)
			if !ok {
				continue
			}
			if err := tx.Delete(&f).Error; err != nil {
				return fmt.Errorf("failed to rename folder: %w", err)
			}
			if err := s.registerFolder(tx, b.ID, renamed); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.deleteObjects(ctx, logger, newKeys(moves))
		return nil, err
	}
	s.deleteObjects(ctx, logger, oldKeys(moves))

	logger.Info("Folder renamed",
		zap.String("from", oldNorm),
		zap.String("to", newNorm),
		zap.Int("moved", len(moves)),
	)
	s.notify(b, websocket.ActionRenameFolder, map[string]interface{}{"old_folder_path": oldNorm, "new_folder_path": newNorm})
	return s.GetBusiness(ctx, userID, businessID)
}

// DeleteFolder removes folderPath, every folder below it and all their media.
func (s *Service) DeleteFolder(ctx context.Context, userID, businessID, folderPath string) (*models.Business, error) {
	logger := s.logger.With(
		zap.String("method", "DeleteFolder"),
		zap.String("business_id", businessID),
	)

	norm, err := ValidateFolderPath(folderPath)
	if err != nil {
		return nil, err
	}
	b, err := s.loadBusiness(ctx, s.db, userID, businessID)
	if err != nil {
		return nil, err
	}
	folders, err := s.loadFolders(ctx, s.db, b.ID)
	if err != nil {
		return nil, err
	}

	images := imagesWithin(b, norm)
	if len(images) == 0 && !anyFolderWithin(folders, norm) {
		return nil, fmt.Errorf("folder %s: %w", norm, ErrNotFound)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range images {
			if err := tx.Delete(&images[i]).Error; err != nil {
				return fmt.Errorf("failed to delete image: %w", err)
			}
		}
		for i := range folders {
			if !organizer.IsWithin(folders[i].Path, norm) {
				continue
			}
			if err := tx.Delete(&folders[i]).Error; err != nil {
				return fmt.Errorf("failed to delete folder: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(images))
	for _, img := range images {
		keys = append(keys, img.StoragePath)
	}
	s.deleteObjects(ctx, logger, keys)

	logger.Info("Folder deleted", zap.String("folder_path", norm), zap.Int("images", len(images)))
	s.notify(b, websocket.ActionDeleteFolder, map[string]interface{}{"folder_path": norm})
	return s.GetBusiness(ctx, userID, businessID)
}

// MoveImages moves images into target and registers target as a folder.
func (s *Service) MoveImages(ctx context.Context, userID, businessID string, imageIDs []string, target string) (*models.Business, error) {
	logger := s.logger.With(
		zap.String("method", "MoveImages"),
		zap.String("business_id", businessID),
	)

	if len(imageIDs) == 0 {
		return nil, fmt.Errorf("%w: image ids are required", ErrInvalidInput)
	}
	norm, toRoot, err := moveTarget(target)
	if err != nil {
		return nil, err
	}
	b, err := s.loadBusiness(ctx, s.db, userID, businessID)
	if err != nil {
		return nil, err
	}

	moves, missing := planMove(b, imageIDs, norm)
	if len(missing) > 0 {
		return nil, fmt.Errorf("images %v: %w", missing, ErrNotFound)
	}

	if err := s.copyObjects(ctx, logger, moves); err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.applyRelocations(tx, moves); err != nil {
			return err
		}
		if toRoot {
			return nil
		}
		return s.registerFolder(tx, b.ID, norm)
	})
	if err != nil {
		s.deleteObjects(ctx, logger, newKeys(moves))
		return nil, err
	}
	s.deleteObjects(ctx, logger, oldKeys(moves))

	logger.Info("Images moved", zap.String("target", norm), zap.Int("moved", len(moves)))
	s.notify(b, websocket.ActionMoveImages, map[string]interface{}{"image_ids": imageIDs, "target_folder_path": norm})
	return s.GetBusiness(ctx, userID, businessID)
}

// Export lists every image with the folder it appears in.
func (s *Service) Export(ctx context.Context, userID, businessID string) ([]ExportRow, error) {
	b, err := s.loadBusiness(ctx, s.db, userID, businessID)
	if err != nil {
		return nil, err
	}
	root := b.MediaRoot()
	rows := make([]ExportRow, 0, len(b.UploadedImages))
	for _, img := range b.UploadedImages {
		rows = append(rows, ExportRow{
			ID:         img.ID,
			Filename:   organizer.Filename(img.StoragePath),
			Folder:     currentFolder(img, root),
			URL:        img.URL,
			Format:     img.Format,
			FileSize:   img.FileSize,
			Width:      img.Width,
			Height:     img.Height,
			UploadedAt: img.UploadedAt,
		})
	}
	return rows, nil
}

// copyObjects copies every relocation to its new key. On failure the copies
// made so far are removed.
func (s *Service) copyObjects(ctx context.Context, logger *zap.Logger, moves []relocation) error {
	for i, m := range moves {
		if err := s.store.Copy(ctx, m.oldKey, m.newKey); err != nil {
			s.deleteObjects(ctx, logger, newKeys(moves[:i]))
			return fmt.Errorf("failed to copy %s: %w", m.oldKey, err)
		}
	}
	return nil
}

func (s *Service) applyRelocations(tx *gorm.DB, moves []relocation) error {
	for _, m := range moves {
		err := tx.Model(&models.UploadedImage{}).
			Where("id = ?", m.image.ID).
			Updates(map[string]interface{}{
				"storage_path": m.newKey,
				"url":          s.store.PublicURL(m.newKey),
				"category":     "",
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update image %s: %w", m.image.ID, err)
		}
	}
	return nil
}

// deleteObjects removes objects best effort. Rows are already committed, so a
// leftover object is logged and otherwise ignored.
func (s *Service) deleteObjects(ctx context.Context, logger *zap.Logger, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			logger.Warn("Failed to delete object", zap.String("key", key), zap.Error(err))
		}
	}
}

func anyFolderWithin(folders []models.BusinessFolder, path string) bool {
	for _, f := range folders {
		if organizer.IsWithin(f.Path, path) {
			return true
		}
	}
	return false
}

func oldKeys(moves []relocation) []string {
	keys := make([]string, 0, len(moves))
	for _, m := range moves {
		keys = append(keys, m.oldKey)
	}
	return keys
}

func newKeys(moves []relocation) []string {
	keys := make([]string, 0, len(moves))
	for _, m := range moves {
		keys = append(keys, m.newKey)
	}
	return keys
}
