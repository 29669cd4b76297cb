package organizer

import (
	"fmt"
	"sort"
	"strings"

	"restaurant-media-organizer/internal/models"
)

// ViewMode is the host's preferred media layout.
type ViewMode string

const (
	ViewGrid     ViewMode = "grid"
	ViewList     ViewMode = "list"
	ViewTimeline ViewMode = "timeline"
)

// SortBy selects the media sort key.
type SortBy string

const (
	SortByName SortBy = "name"
	SortByDate SortBy = "date"
	SortBySize SortBy = "size"
)

// SortOrder selects the media sort direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseViewMode validates a view mode string.
func ParseViewMode(s string) (ViewMode, error) {
	switch m := ViewMode(strings.ToLower(s)); m {
	case ViewGrid, ViewList, ViewTimeline:
		return m, nil
	}
	return "", fmt.Errorf("invalid view mode: %s", s)
}

// ParseSortBy validates a sort key string.
func ParseSortBy(s string) (SortBy, error) {
	switch by := SortBy(strings.ToLower(s)); by {
	case SortByName, SortByDate, SortBySize:
		return by, nil
	}
	return "", fmt.Errorf("invalid sort key: %s", s)
}

// ParseSortOrder validates a sort order string.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(s)); o {
	case SortAsc, SortDesc:
		return o, nil
	}
	return "", fmt.Errorf("invalid sort order: %s", s)
}

// Breadcrumb is one step of the path from the root to the current folder.
type Breadcrumb struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// Breadcrumbs returns the trail for currentPath. The root crumb carries
// rootName, never "/".
func Breadcrumbs(currentPath, rootName string) []Breadcrumb {
	if rootName == "" {
		rootName = DefaultRootName
	}
	crumbs := []Breadcrumb{{Name: rootName, Path: RootPath}}
	if currentPath == RootPath {
		return crumbs
	}

	accumulated := ""
	for _, part := range SplitFolderPath(currentPath) {
		if accumulated == "" {
			accumulated = part
		} else {
			accumulated += "/" + part
		}
		crumbs = append(crumbs, Breadcrumb{Name: part, Path: accumulated})
	}
	return crumbs
}

// FilterImages keeps the images whose filename or derived folder path contains
// query, case-insensitively. A blank query keeps everything. The input slice
// is not modified.
func FilterImages(images []models.UploadedImage, query, rootID string) []models.UploadedImage {
	out := make([]models.UploadedImage, 0, len(images))
	if strings.TrimSpace(query) == "" {
		return append(out, images...)
	}

	q := strings.ToLower(query)
	for _, img := range images {
		name := strings.ToLower(Filename(img.StoragePath))
		folder := strings.ToLower(FolderPath(img.StoragePath, rootID))
		if strings.Contains(name, q) || strings.Contains(folder, q) {
			out = append(out, img)
		}
	}
	return out
}

// SortImages sorts images in place. Descending order negates the comparator,
// so equal keys keep their relative order in both directions.
func SortImages(images []models.UploadedImage, by SortBy, order SortOrder) {
	cmp := imageComparator(by)
	sort.SliceStable(images, func(i, j int) bool {
		c := cmp(images[i], images[j])
		if order == SortDesc {
			c = -c
		}
		return c < 0
	})
}

func imageComparator(by SortBy) func(a, b models.UploadedImage) int {
	switch by {
	case SortByName:
		cl := newCollator()
		return func(a, b models.UploadedImage) int {
			return cl.CompareString(Filename(a.StoragePath), Filename(b.StoragePath))
		}
	case SortBySize:
		return func(a, b models.UploadedImage) int {
			return compareInt64(a.FileSize, b.FileSize)
		}
	default:
		return func(a, b models.UploadedImage) int {
			return a.UploadedAt.Compare(b.UploadedAt)
		}
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
