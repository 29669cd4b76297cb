package organizer

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"restaurant-media-organizer/internal/models"
)

// Backend is the authoritative store the organizer reconciles with. Calls
// that change storage paths answer with the full updated business.
type Backend interface {
	GetBusiness(ctx context.Context, businessID string) (*models.Business, error)
	DeleteBusinessImage(ctx context.Context, businessID, imageID string) error
	CreateFolder(ctx context.Context, businessID, folderPath string) (bool, error)
	RenameFolder(ctx context.Context, businessID, oldPath, newPath string) (*models.Business, error)
	DeleteFolder(ctx context.Context, businessID, folderPath string) (*models.Business, error)
	MoveImages(ctx context.Context, businessID string, imageIDs []string, targetPath string) (*models.Business, error)
}

// Organizer keeps the folder view of one business consistent with the
// backend. The tree is rebuilt from scratch after every change to the media
// list or the virtual folder registry.
//
// Mutations are serialized: a second mutation waits for the first to finish
// its backend round-trip and rebuild. Readers never block on the backend.
type Organizer struct {
	backend Backend
	logger  *zap.Logger

	opMu sync.Mutex

	mu          sync.RWMutex
	businessID  string
	rootID      string
	name        string
	images      []models.UploadedImage
	registry    *VirtualFolderRegistry
	tree        *FolderNode
	currentPath string
	selected    map[string]struct{}
	viewMode    ViewMode
	searchQuery string
	sortBy      SortBy
	sortOrder   SortOrder
	lastErr     string
}

// Option configures an Organizer.
type Option func(*Organizer)

// WithLogger sets the logger used for mutation outcomes.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Organizer) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithVirtualFolders seeds the registry with extra empty folders.
func WithVirtualFolders(paths ...string) Option {
	return func(o *Organizer) {
		for _, p := range paths {
			o.registry.Add(p)
		}
	}
}

// New creates an organizer for business. Folders already recorded on the
// business seed the virtual folder registry.
func New(business *models.Business, backend Backend, opts ...Option) (*Organizer, error) {
	if business == nil || business.ID == "" {
		return nil, ErrNoBusinessID
	}
	if backend == nil {
		return nil, ErrNoBackend
	}

	o := &Organizer{
		backend:     backend,
		logger:      zap.NewNop(),
		businessID:  business.ID,
		rootID:      business.MediaRoot(),
		name:        business.DisplayName(),
		images:      append([]models.UploadedImage(nil), business.UploadedImages...),
		registry:    NewVirtualFolderRegistry(business.Folders...),
		currentPath: RootPath,
		selected:    make(map[string]struct{}),
		viewMode:    ViewGrid,
		sortBy:      SortByDate,
		sortOrder:   SortDesc,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With(zap.String("business_id", o.businessID))
	o.rebuildLocked()
	return o, nil
}

// rebuildLocked recomputes the tree from the media list and the registry and
// falls back to the root when the current folder vanished. Callers hold mu.
func (o *Organizer) rebuildLocked() {
	o.tree = Build(o.images, o.registry.Paths(), o.name, o.rootID)
	if o.tree.Find(o.currentPath) == nil {
		o.currentPath = RootPath
	}
}

func (o *Organizer) clearSelectionLocked() {
	o.selected = make(map[string]struct{})
}

// fail records err as the last error and returns it as a MutationError.
func (o *Organizer) fail(op Op, err error) error {
	merr := newMutationError(op, err)
	o.mu.Lock()
	o.lastErr = merr.Message
	o.mu.Unlock()
	o.logger.Warn("Media mutation failed",
		zap.String("op", string(op)),
		zap.String("message", merr.Message),
		zap.Error(err),
	)
	return merr
}

func (o *Organizer) begin() {
	o.opMu.Lock()
	o.mu.Lock()
	o.lastErr = ""
	o.mu.Unlock()
}

func (o *Organizer) end() {
	o.opMu.Unlock()
}

// BusinessID returns the id of the organized business.
func (o *Organizer) BusinessID() string {
	return o.businessID
}

// Tree returns the current folder tree. Mutations and expansion toggles swap
// in a new tree and never edit a returned one; callers must treat it as
// read-only.
func (o *Organizer) Tree() *FolderNode {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.tree
}

// Images returns a copy of the local media list.
func (o *Organizer) Images() []models.UploadedImage {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]models.UploadedImage(nil), o.images...)
}

// VirtualFolders returns the registered empty-folder paths.
func (o *Organizer) VirtualFolders() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.registry.Paths()
}

// LastError returns the message of the most recent failed mutation, or ""
// when the last mutation succeeded.
func (o *Organizer) LastError() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.lastErr
}

// RefreshImages refetches the business and rebuilds.
func (o *Organizer) RefreshImages(ctx context.Context) error {
	o.begin()
	defer o.end()

	business, err := o.backend.GetBusiness(ctx, o.businessID)
	if err != nil {
		return o.fail(OpRefreshImages, err)
	}
	if business == nil {
		return o.fail(OpRefreshImages, ErrNoBusiness)
	}

	o.mu.Lock()
	o.images = append([]models.UploadedImage(nil), business.UploadedImages...)
	o.name = business.DisplayName()
	for _, p := range business.Folders {
		o.registry.Add(p)
	}
	o.rebuildLocked()
	o.mu.Unlock()

	o.logger.Debug("Media refreshed", zap.Int("image_count", len(business.UploadedImages)))
	return nil
}

// ApplyNewImages appends freshly uploaded images without a backend round-trip.
func (o *Organizer) ApplyNewImages(items []models.UploadedImage) {
	if len(items) == 0 {
		return
	}
	o.opMu.Lock()
	defer o.opMu.Unlock()

	o.mu.Lock()
	o.images = append(o.images, items...)
	o.rebuildLocked()
	o.mu.Unlock()
}

// DeleteImages deletes each image on the backend, one call at a time, then
// drops them from the local list.
func (o *Organizer) DeleteImages(ctx context.Context, imageIDs []string) error {
	o.begin()
	defer o.end()

	if len(imageIDs) == 0 {
		return o.fail(OpDeleteImages, ErrNoImages)
	}
	for _, id := range imageIDs {
		if err := o.backend.DeleteBusinessImage(ctx, o.businessID, id); err != nil {
			return o.fail(OpDeleteImages, err)
		}
	}

	deleted := make(map[string]struct{}, len(imageIDs))
	for _, id := range imageIDs {
		deleted[id] = struct{}{}
	}

	o.mu.Lock()
	kept := make([]models.UploadedImage, 0, len(o.images))
	for _, img := range o.images {
		if _, gone := deleted[img.ID]; !gone {
			kept = append(kept, img)
		}
	}
	o.images = kept
	o.rebuildLocked()
	o.clearSelectionLocked()
	o.mu.Unlock()

	o.logger.Info("Images deleted", zap.Int("count", len(imageIDs)))
	return nil
}

// CreateFolder asks the backend to create folderPath and registers it as a
// virtual folder so it shows up while empty.
func (o *Organizer) CreateFolder(ctx context.Context, folderPath string) error {
	o.begin()
	defer o.end()

	norm := NormalizeFolderPath(folderPath)
	if norm == "" {
		return o.fail(OpCreateFolder, ErrEmptyPath)
	}

	ok, err := o.backend.CreateFolder(ctx, o.businessID, norm)
	if err != nil {
		return o.fail(OpCreateFolder, err)
	}
	if !ok {
		return o.fail(OpCreateFolder, ErrNotCreated)
	}

	o.mu.Lock()
	o.registry.Add(norm)
	o.rebuildLocked()
	o.mu.Unlock()

	o.logger.Info("Folder created", zap.String("path", norm))
	return nil
}

// RenameFolder renames oldPath to newPath. The backend rewrites every storage
// path below oldPath and returns the new media list. Navigation inside the
// renamed subtree follows the rename.
func (o *Organizer) RenameFolder(ctx context.Context, oldPath, newPath string) error {
	o.begin()
	defer o.end()

	oldNorm := NormalizeFolderPath(oldPath)
	newNorm := NormalizeFolderPath(newPath)
	if oldNorm == "" || newNorm == "" {
		return o.fail(OpRenameFolder, ErrEmptyPath)
	}

	business, err := o.backend.RenameFolder(ctx, o.businessID, oldNorm, newNorm)
	if err != nil {
		return o.fail(OpRenameFolder, err)
	}
	if business == nil {
		return o.fail(OpRenameFolder, ErrNoBusiness)
	}

	o.mu.Lock()
	o.images = append([]models.UploadedImage(nil), business.UploadedImages...)
	o.registry.Rename(oldNorm, newNorm)
	if IsWithin(o.currentPath, oldNorm) {
		o.currentPath = newNorm + o.currentPath[len(oldNorm):]
	}
	o.rebuildLocked()
	o.mu.Unlock()

	o.logger.Info("Folder renamed", zap.String("from", oldNorm), zap.String("to", newNorm))
	return nil
}

// DeleteFolder deletes folderPath and all media below it on the backend.
// Navigation inside the deleted subtree returns to the root.
func (o *Organizer) DeleteFolder(ctx context.Context, folderPath string) error {
	o.begin()
	defer o.end()

	norm := NormalizeFolderPath(folderPath)
	if norm == "" {
		return o.fail(OpDeleteFolder, ErrEmptyPath)
	}

	business, err := o.backend.DeleteFolder(ctx, o.businessID, norm)
	if err != nil {
		return o.fail(OpDeleteFolder, err)
	}
	if business == nil {
		return o.fail(OpDeleteFolder, ErrNoBusiness)
	}

	o.mu.Lock()
	o.images = append([]models.UploadedImage(nil), business.UploadedImages...)
	o.registry.Remove(norm)
	if IsWithin(o.currentPath, norm) {
		o.currentPath = RootPath
	}
	o.rebuildLocked()
	o.clearSelectionLocked()
	o.mu.Unlock()

	o.logger.Info("Folder deleted", zap.String("path", norm))
	return nil
}

// MoveImages moves images into targetPath. The target is registered as a
// virtual folder so it stays visible if it is emptied later. "/" and
// "uncategorized" move the images back to the root and register nothing.
func (o *Organizer) MoveImages(ctx context.Context, imageIDs []string, targetPath string) error {
	o.begin()
	defer o.end()

	if len(imageIDs) == 0 {
		return o.fail(OpMoveImages, ErrNoImages)
	}
	if strings.TrimSpace(targetPath) == "" {
		return o.fail(OpMoveImages, ErrEmptyPath)
	}
	target := NormalizeFolderPath(targetPath)
	toRoot := target == "" || target == Uncategorized
	if toRoot {
		target = Uncategorized
	}

	business, err := o.backend.MoveImages(ctx, o.businessID, imageIDs, target)
	if err != nil {
		return o.fail(OpMoveImages, err)
	}
	if business == nil {
		return o.fail(OpMoveImages, ErrNoBusiness)
	}

	o.mu.Lock()
	o.images = append([]models.UploadedImage(nil), business.UploadedImages...)
	if !toRoot {
		o.registry.Add(target)
	}
	o.rebuildLocked()
	o.clearSelectionLocked()
	o.mu.Unlock()

	o.logger.Info("Images moved", zap.Int("count", len(imageIDs)), zap.String("target", target))
	return nil
}
