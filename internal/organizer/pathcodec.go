package organizer

import (
	"strings"

	"restaurant-media-organizer/internal/models"
)

const (
	// Uncategorized is the sentinel folder/category meaning "no folder".
	Uncategorized = "uncategorized"

	categoriesPrefix = "categories/"
)

// Segments extracts the folder names encoded in a storage path. The filename
// is always dropped. Three layouts are recognized, first match wins:
//
//	{user}/{root}/[categories/]{folder...}/{file}   current uploads
//	{root}/categories/{folder...}/{file}             legacy uploads
//	.../categories/{folder...}/{file}                anything else with a categories dir
//
// Anything else yields an empty slice. The first occurrence of "/{root}/"
// is used even when the root id also appears later in the path.
func Segments(storagePath, rootID string) []string {
	current := "/" + rootID + "/"
	if i := strings.Index(storagePath, current); i >= 0 {
		rest := storagePath[i+len(current):]
		rest = strings.TrimPrefix(rest, categoriesPrefix)
		return folderParts(rest)
	}

	legacy := rootID + "/" + categoriesPrefix
	if strings.HasPrefix(storagePath, legacy) {
		return folderParts(storagePath[len(legacy):])
	}

	if i := strings.Index(storagePath, "/"+categoriesPrefix); i >= 0 {
		return folderParts(storagePath[i+len("/"+categoriesPrefix):])
	}

	return []string{}
}

// folderParts splits rest on "/", drops the trailing filename and any empty
// segment.
func folderParts(rest string) []string {
	parts := strings.Split(rest, "/")
	parts = parts[:len(parts)-1]
	return splitClean(parts)
}

func splitClean(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitFolderPath splits a folder path on "/" dropping empty segments.
func SplitFolderPath(path string) []string {
	return splitClean(strings.Split(path, "/"))
}

// Filename returns the last "/" segment of a storage path.
func Filename(storagePath string) string {
	if i := strings.LastIndex(storagePath, "/"); i >= 0 {
		return storagePath[i+1:]
	}
	return storagePath
}

// FolderPath returns the folder segments of a storage path joined with "/".
func FolderPath(storagePath, rootID string) string {
	return strings.Join(Segments(storagePath, rootID), "/")
}

// NormalizeFolderPath strips leading and trailing slashes and surrounding
// whitespace.
func NormalizeFolderPath(path string) string {
	return strings.TrimSpace(strings.Trim(path, "/"))
}

// SourceKind tells where an image's folder placement came from.
type SourceKind int

const (
	SourceNone SourceKind = iota
	SourcePath
	SourceCategory
)

func (k SourceKind) String() string {
	switch k {
	case SourcePath:
		return "path"
	case SourceCategory:
		return "category"
	default:
		return "none"
	}
}

// FolderSource is the resolved folder placement of one image.
type FolderSource struct {
	Kind     SourceKind
	segments []string
}

// Segments returns the folder segments; empty for SourceNone.
func (s FolderSource) Segments() []string {
	if s.Kind == SourceNone {
		return nil
	}
	return s.segments
}

// Path returns the segments joined with "/".
func (s FolderSource) Path() string {
	return strings.Join(s.Segments(), "/")
}

// ResolveFolder decides where img belongs. The storage path wins; the category
// is consulted only when the path encodes no folder. A lone "uncategorized"
// folder, from either source, means the root.
func ResolveFolder(img models.UploadedImage, rootID string) FolderSource {
	if fromPath := Segments(img.StoragePath, rootID); len(fromPath) > 0 {
		if isUncategorized(fromPath) {
			return FolderSource{Kind: SourceNone}
		}
		return FolderSource{Kind: SourcePath, segments: fromPath}
	}

	if img.Category != "" && img.Category != Uncategorized {
		fromCategory := SplitFolderPath(img.Category)
		if len(fromCategory) == 0 || isUncategorized(fromCategory) {
			return FolderSource{Kind: SourceNone}
		}
		return FolderSource{Kind: SourceCategory, segments: fromCategory}
	}

	return FolderSource{Kind: SourceNone}
}

func isUncategorized(segments []string) bool {
	return len(segments) == 1 && segments[0] == Uncategorized
}

// IsWithin reports whether path equals folder or lies below it.
func IsWithin(path, folder string) bool {
	return path == folder || strings.HasPrefix(path, folder+"/")
}
