package organizer

import (
	"strings"

	"restaurant-media-organizer/internal/models"
)

// CurrentFolderPath returns the path of the folder being viewed.
func (o *Organizer) CurrentFolderPath() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.currentPath
}

// CurrentFolder returns the node being viewed, or nil if it does not resolve.
func (o *Organizer) CurrentFolder() *FolderNode {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.tree.Find(o.currentPath)
}

// NavigateToFolder moves the view to path and clears the selection. The path
// is not checked; an unknown folder shows the whole media list.
func (o *Organizer) NavigateToFolder(path string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if norm := NormalizeFolderPath(path); norm != "" {
		o.currentPath = norm
	} else {
		o.currentPath = RootPath
	}
	o.clearSelectionLocked()
}

// ToggleFolderExpansion flips the expanded flag of the folder at path. The
// tree is swapped for a copy, so trees returned earlier by Tree keep their
// flags. The flag does not survive the next rebuild.
func (o *Organizer) ToggleFolderExpansion(path string) {
	norm := NormalizeFolderPath(path)
	if norm == "" {
		norm = RootPath
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if toggled := o.tree.withExpansionToggled(norm); toggled != nil {
		o.tree = toggled
	}
}

func (o *Organizer) filteredLocked() []models.UploadedImage {
	source := o.images
	if node := o.tree.Find(o.currentPath); node != nil {
		source = node.Images
		// A search from the root covers the whole library.
		if node == o.tree && strings.TrimSpace(o.searchQuery) != "" {
			source = o.tree.AllImages()
		}
	}
	out := FilterImages(source, o.searchQuery, o.rootID)
	SortImages(out, o.sortBy, o.sortOrder)
	return out
}

// FilteredImages returns the current folder's direct images after search and
// sort are applied. Searching at the root matches images in every folder.
func (o *Organizer) FilteredImages() []models.UploadedImage {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.filteredLocked()
}

// Breadcrumbs returns the trail from the root to the current folder.
func (o *Organizer) Breadcrumbs() []Breadcrumb {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return Breadcrumbs(o.currentPath, o.name)
}

// ToggleImageSelection adds id to the selection or removes it.
func (o *Organizer) ToggleImageSelection(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.selected[id]; ok {
		delete(o.selected, id)
		return
	}
	o.selected[id] = struct{}{}
}

// SelectAll adds every filtered image to the selection.
func (o *Organizer) SelectAll() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, img := range o.filteredLocked() {
		o.selected[img.ID] = struct{}{}
	}
}

// DeselectAll empties the selection.
func (o *Organizer) DeselectAll() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.clearSelectionLocked()
}

// ToggleSelectAll deselects everything when every filtered image is selected
// and selects every filtered image otherwise.
func (o *Organizer) ToggleSelectAll() {
	o.mu.Lock()
	defer o.mu.Unlock()
	filtered := o.filteredLocked()
	if o.allSelectedLocked(filtered) {
		o.clearSelectionLocked()
		return
	}
	for _, img := range filtered {
		o.selected[img.ID] = struct{}{}
	}
}

// SelectedIDs returns the ids in the selection, including ids currently
// hidden by the search filter.
func (o *Organizer) SelectedIDs() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	ids := make([]string, 0, len(o.selected))
	for id := range o.selected {
		ids = append(ids, id)
	}
	return ids
}

// IsSelected reports whether id is selected.
func (o *Organizer) IsSelected(id string) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.selected[id]
	return ok
}

// SelectedImages returns the filtered images that are selected.
func (o *Organizer) SelectedImages() []models.UploadedImage {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var out []models.UploadedImage
	for _, img := range o.filteredLocked() {
		if _, ok := o.selected[img.ID]; ok {
			out = append(out, img)
		}
	}
	return out
}

// HasSelection reports whether anything is selected.
func (o *Organizer) HasSelection() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.selected) > 0
}

// AllSelected reports whether every filtered image is selected. It is false
// when nothing is shown.
func (o *Organizer) AllSelected() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.allSelectedLocked(o.filteredLocked())
}

func (o *Organizer) allSelectedLocked(filtered []models.UploadedImage) bool {
	if len(filtered) == 0 {
		return false
	}
	for _, img := range filtered {
		if _, ok := o.selected[img.ID]; !ok {
			return false
		}
	}
	return true
}

// ViewMode returns the layout preference.
func (o *Organizer) ViewMode() ViewMode {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.viewMode
}

// SetViewMode sets the layout preference.
func (o *Organizer) SetViewMode(mode ViewMode) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.viewMode = mode
}

// SearchQuery returns the active search text.
func (o *Organizer) SearchQuery() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.searchQuery
}

// SetSearchQuery sets the search text applied by FilteredImages.
func (o *Organizer) SetSearchQuery(query string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.searchQuery = query
}

// Sort returns the active sort key and direction.
func (o *Organizer) Sort() (SortBy, SortOrder) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.sortBy, o.sortOrder
}

// SetSort sets the sort key and direction.
func (o *Organizer) SetSort(by SortBy, order SortOrder) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sortBy = by
	o.sortOrder = order
}

// ToggleSortOrder flips between ascending and descending.
func (o *Organizer) ToggleSortOrder() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.sortOrder == SortAsc {
		o.sortOrder = SortDesc
	} else {
		o.sortOrder = SortAsc
	}
}
