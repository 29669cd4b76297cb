package library

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"restaurant-media-organizer/internal/models"
	"restaurant-media-organizer/internal/organizer"
)

// moveTarget resolves the destination of a move. "/" and "uncategorized"
// mean the root; toRoot reports that case so no folder gets registered.
func moveTarget(p string) (norm string, toRoot bool, err error) {
	if strings.TrimSpace(p) == "" {
		return "", false, fmt.Errorf("%w: target folder path is required", ErrInvalidPath)
	}
	if n := organizer.NormalizeFolderPath(p); n == "" || n == organizer.Uncategorized {
		return organizer.Uncategorized, true, nil
	}
	norm, err = ValidateFolderPath(p)
	return norm, false, err
}

// ValidateFolderPath normalizes a folder path coming from a request.
func ValidateFolderPath(p string) (string, error) {
	norm := organizer.NormalizeFolderPath(p)
	if norm == "" {
		return "", fmt.Errorf("%w: folder path is required", ErrInvalidPath)
	}
	if strings.ContainsAny(norm, "\\\x00") {
		return "", fmt.Errorf("%w: %q contains invalid characters", ErrInvalidPath, p)
	}
	for _, seg := range strings.Split(norm, "/") {
		switch strings.TrimSpace(seg) {
		case "":
			return "", fmt.Errorf("%w: %q has an empty segment", ErrInvalidPath, p)
		case ".", "..":
			return "", fmt.Errorf("%w: %q is not allowed", ErrInvalidPath, p)
		}
	}
	return norm, nil
}

// objectKey builds a storage path in the current layout:
// {user}/{root}/{folder...}/{filename}. An empty folder stores the object in
// the uncategorized folder, which the tree shows at the root.
func objectKey(userID, rootID, folder, filename string) string {
	parts := []string{userID, rootID}
	if segs := organizer.SplitFolderPath(folder); len(segs) > 0 {
		parts = append(parts, segs...)
	} else {
		parts = append(parts, organizer.Uncategorized)
	}
	return strings.Join(append(parts, filename), "/")
}

// currentFolder returns the folder an image appears in, as the organizer
// resolves it.
func currentFolder(img models.UploadedImage, rootID string) string {
	return organizer.ResolveFolder(img, rootID).Path()
}

// renamedFolder maps folder into newPath when it lies within oldPath.
func renamedFolder(folder, oldPath, newPath string) (string, bool) {
	if !organizer.IsWithin(folder, oldPath) {
		return "", false
	}
	return newPath + folder[len(oldPath):], true
}

// relocation is one object that changes key.
type relocation struct {
	image  models.UploadedImage
	oldKey string
	newKey string
}

// keySet tracks keys in use so relocations never overwrite another object.
type keySet map[string]struct{}

func newKeySet(images []models.UploadedImage) keySet {
	ks := make(keySet, len(images))
	for _, img := range images {
		ks[img.StoragePath] = struct{}{}
	}
	return ks
}

// claim reserves key, or a variant with a short unique prefix on the filename
// when key is taken.
func (ks keySet) claim(key string) string {
	for {
		if _, taken := ks[key]; !taken {
			ks[key] = struct{}{}
			return key
		}
		dir, file := "", key
		if i := strings.LastIndex(key, "/"); i >= 0 {
			dir, file = key[:i+1], key[i+1:]
		}
		key = dir + uuid.NewString()[:8] + "-" + file
	}
}

// planRename computes the relocations for renaming oldPath to newPath.
func planRename(b *models.Business, oldPath, newPath string) []relocation {
	root := b.MediaRoot()
	keys := newKeySet(b.UploadedImages)
	var moves []relocation
	for _, img := range b.UploadedImages {
		folder, ok := renamedFolder(currentFolder(img, root), oldPath, newPath)
		if !ok {
			continue
		}
		key := objectKey(b.UserID, root, folder, organizer.Filename(img.StoragePath))
		if key == img.StoragePath {
			continue
		}
		moves = append(moves, relocation{image: img, oldKey: img.StoragePath, newKey: keys.claim(key)})
	}
	return moves
}

// planMove computes the relocations for moving the given images into target.
// It reports the ids that do not belong to the business.
func planMove(b *models.Business, imageIDs []string, target string) ([]relocation, []string) {
	root := b.MediaRoot()
	byID := make(map[string]models.UploadedImage, len(b.UploadedImages))
	for _, img := range b.UploadedImages {
		byID[img.ID] = img
	}

	keys := newKeySet(b.UploadedImages)
	seen := make(map[string]struct{}, len(imageIDs))
	var (
		moves   []relocation
		missing []string
	)
	for _, id := range imageIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		img, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		key := objectKey(b.UserID, root, target, organizer.Filename(img.StoragePath))
		if key == img.StoragePath {
			continue
		}
		moves = append(moves, relocation{image: img, oldKey: img.StoragePath, newKey: keys.claim(key)})
	}
	return moves, missing
}

// imagesWithin returns the images whose folder lies within folderPath.
func imagesWithin(b *models.Business, folderPath string) []models.UploadedImage {
	root := b.MediaRoot()
	var out []models.UploadedImage
	for _, img := range b.UploadedImages {
		if organizer.IsWithin(currentFolder(img, root), folderPath) {
			out = append(out, img)
		}
	}
	return out
}
