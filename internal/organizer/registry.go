package organizer

// VirtualFolderRegistry holds folder paths that must appear in the tree even
// while they contain no media. Paths are stored normalized and unique, in
// insertion order. It is not safe for concurrent use.
type VirtualFolderRegistry struct {
	paths []string
}

// NewVirtualFolderRegistry returns a registry seeded with paths.
func NewVirtualFolderRegistry(paths ...string) *VirtualFolderRegistry {
	r := &VirtualFolderRegistry{}
	for _, p := range paths {
		r.Add(p)
	}
	return r
}

// Add registers path. It reports false when the path normalizes to empty or
// is already present.
func (r *VirtualFolderRegistry) Add(path string) bool {
	norm := NormalizeFolderPath(path)
	if norm == "" || r.Contains(norm) {
		return false
	}
	r.paths = append(r.paths, norm)
	return true
}

// Contains reports whether the normalized path is registered.
func (r *VirtualFolderRegistry) Contains(path string) bool {
	norm := NormalizeFolderPath(path)
	for _, p := range r.paths {
		if p == norm {
			return true
		}
	}
	return false
}

// Remove drops path and every registered folder below it.
func (r *VirtualFolderRegistry) Remove(path string) {
	norm := NormalizeFolderPath(path)
	if norm == "" {
		return
	}
	kept := r.paths[:0]
	for _, p := range r.paths {
		if !IsWithin(p, norm) {
			kept = append(kept, p)
		}
	}
	r.paths = kept
}

// Rename moves oldPath and everything below it to newPath, keeping the
// remainder of each nested path.
func (r *VirtualFolderRegistry) Rename(oldPath, newPath string) {
	oldNorm := NormalizeFolderPath(oldPath)
	newNorm := NormalizeFolderPath(newPath)
	if oldNorm == "" || newNorm == "" {
		return
	}
	renamed := make([]string, 0, len(r.paths))
	seen := make(map[string]struct{}, len(r.paths))
	for _, p := range r.paths {
		if IsWithin(p, oldNorm) {
			p = newNorm + p[len(oldNorm):]
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		renamed = append(renamed, p)
	}
	r.paths = renamed
}

// Paths returns a copy of the registered paths.
func (r *VirtualFolderRegistry) Paths() []string {
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

// Len returns the number of registered paths.
func (r *VirtualFolderRegistry) Len() int {
	return len(r.paths)
}
