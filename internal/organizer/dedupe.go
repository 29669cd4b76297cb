package organizer

import (
	"strings"

	"restaurant-media-organizer/internal/models"
)

// fingerprint approximates "same logical asset": same storage directory,
// same byte size and same pixel dimensions.
type fingerprint struct {
	dir    string
	size   int64
	width  int
	height int
}

func fingerprintOf(img models.UploadedImage) fingerprint {
	dir := ""
	if i := strings.LastIndex(img.StoragePath, "/"); i >= 0 {
		dir = img.StoragePath[:i]
	}
	return fingerprint{
		dir:    dir,
		size:   img.FileSize,
		width:  img.Width,
		height: img.Height,
	}
}

// Dedupe drops every image whose fingerprint matches an earlier one. The
// survivors keep their original relative order.
func Dedupe(items []models.UploadedImage) []models.UploadedImage {
	seen := make(map[fingerprint]struct{}, len(items))
	out := make([]models.UploadedImage, 0, len(items))
	for _, img := range items {
		fp := fingerprintOf(img)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, img)
	}
	return out
}
