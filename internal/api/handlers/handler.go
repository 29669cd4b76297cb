package handlers

import (
	"context"

	"go.uber.org/zap"

	"restaurant-media-organizer/internal/library"
	"restaurant-media-organizer/internal/models"
	"restaurant-media-organizer/internal/websocket"
)

// MediaService is the media library behind the HTTP handlers.
type MediaService interface {
	GetBusiness(ctx context.Context, userID, businessID string) (*models.Business, error)
	UploadImages(ctx context.Context, userID, businessID, category string, files []library.UploadFile) ([]models.UploadedImage, error)
	DeleteImage(ctx context.Context, userID, businessID, imageID string) error
	CreateFolder(ctx context.Context, userID, businessID, folderPath string) error
	RenameFolder(ctx context.Context, userID, businessID, oldPath, newPath string) (*models.Business, error)
	DeleteFolder(ctx context.Context, userID, businessID, folderPath string) (*models.Business, error)
	MoveImages(ctx context.Context, userID, businessID string, imageIDs []string, target string) (*models.Business, error)
	Export(ctx context.Context, userID, businessID string) ([]library.ExportRow, error)
}

// Handler serves the business media API.
type Handler struct {
	media         MediaService
	ws            *websocket.Manager
	maxUploadSize int64
	logger        *zap.Logger
}

func NewHandler(media MediaService, ws *websocket.Manager, maxUploadSize int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		media:         media,
		ws:            ws,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}
