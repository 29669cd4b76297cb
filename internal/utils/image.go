package utils

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// ImageInfo holds technical details about an uploaded image
type ImageInfo struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ProbeImage decodes data and reports its displayed dimensions and format.
// EXIF orientation is applied so portrait phone photos report portrait sizes.
func ProbeImage(data []byte) (*ImageInfo, error) {
	mimeType := GetMimeType(data)
	if !IsAllowedImageType(mimeType) {
		return nil, fmt.Errorf("unsupported image type: %s", mimeType)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	bounds := img.Bounds()

	return &ImageInfo{
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Format:   format,
		MimeType: mimeType,
		Size:     int64(len(data)),
	}, nil
}

// GetMimeType sniffs the content type from the leading bytes.
func GetMimeType(data []byte) string {
	if len(data) > 512 {
		data = data[:512]
	}
	return http.DetectContentType(data)
}

// IsAllowedImageType reports whether uploads of mimeType are accepted.
func IsAllowedImageType(mimeType string) bool {
	return allowedMimeTypes[mimeType]
}

// ExtensionFor returns the file extension to store an image under. The
// original extension is kept when it agrees with the decoded format.
func ExtensionFor(filename, format string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if f, err := imaging.FormatFromExtension(ext); err == nil && strings.EqualFold(f.String(), normalizeFormat(format)) {
		return ext
	}
	switch format {
	case "jpeg":
		return ".jpg"
	case "":
		return ext
	default:
		return "." + format
	}
}

func normalizeFormat(format string) string {
	if format == "jpg" {
		return "jpeg"
	}
	return format
}

func GetFileType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return "image"
	case ".mp4", ".mov", ".avi":
		return "video"
	default:
		return "other"
	}
}
