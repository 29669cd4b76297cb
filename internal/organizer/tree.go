package organizer

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"restaurant-media-organizer/internal/models"
)

const (
	// RootPath is the path of the root folder node.
	RootPath = "/"
	// DefaultRootName labels the root when the business has no name.
	DefaultRootName = "All Images"
)

// FolderNode is one folder of the derived tree.
type FolderNode struct {
	Name       string                 `json:"name"`
	Path       string                 `json:"path"`
	FullPath   string                 `json:"fullPath"`
	Children   []*FolderNode          `json:"children"`
	Images     []models.UploadedImage `json:"images"`
	ImageCount int                    `json:"imageCount"`
	IsExpanded bool                   `json:"isExpanded"`
}

func newFolderNode(name, path string) *FolderNode {
	return &FolderNode{
		Name:     name,
		Path:     path,
		FullPath: path,
		Children: []*FolderNode{},
		Images:   []models.UploadedImage{},
	}
}

// Build derives the folder tree of one business from its media list and the
// virtual folder paths. The result depends on nothing but its arguments.
func Build(items []models.UploadedImage, virtualFolders []string, rootName, rootID string) *FolderNode {
	if rootName == "" {
		rootName = DefaultRootName
	}
	root := newFolderNode(rootName, RootPath)
	root.IsExpanded = true

	for _, img := range Dedupe(items) {
		parts := ResolveFolder(img, rootID).Segments()
		if len(parts) == 0 {
			root.Images = append(root.Images, img)
			continue
		}
		leaf := root.ensurePath(parts)
		leaf.Images = append(leaf.Images, img)
	}

	cl := newCollator()
	root.sortChildren(cl)

	for _, folder := range virtualFolders {
		if parts := SplitFolderPath(folder); len(parts) > 0 && !isUncategorized(parts) {
			root.ensurePath(parts)
		}
	}

	root.sortChildren(cl)
	root.updateImageCounts()
	return root
}

// ensurePath walks down parts from n, creating missing nodes, and returns the
// deepest node.
func (n *FolderNode) ensurePath(parts []string) *FolderNode {
	node := n
	for depth, name := range parts {
		child := node.child(name)
		if child == nil {
			child = newFolderNode(name, strings.Join(parts[:depth+1], "/"))
			node.Children = append(node.Children, child)
		}
		node = child
	}
	return node
}

func (n *FolderNode) child(name string) *FolderNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func newCollator() *collate.Collator {
	return collate.New(language.Und)
}

func (n *FolderNode) sortChildren(cl *collate.Collator) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		return cl.CompareString(n.Children[i].Name, n.Children[j].Name) < 0
	})
	for _, c := range n.Children {
		c.sortChildren(cl)
	}
}

// updateImageCounts recomputes ImageCount post-order and returns n's count.
func (n *FolderNode) updateImageCounts() int {
	count := len(n.Images)
	for _, c := range n.Children {
		count += c.updateImageCounts()
	}
	n.ImageCount = count
	return count
}

// Find returns the node at path, or nil. "/" and the node's own path match n.
func (n *FolderNode) Find(path string) *FolderNode {
	if path == RootPath || path == n.Path {
		return n
	}
	for _, c := range n.Children {
		if c.Path == path {
			return c
		}
		if found := c.Find(path); found != nil {
			return found
		}
	}
	return nil
}

// withExpansionToggled returns a copy of the tree with IsExpanded flipped on
// the node at path, or nil when path does not resolve. Only the nodes between
// n and the target are copied; n itself is left untouched.
func (n *FolderNode) withExpansionToggled(path string) *FolderNode {
	cp := *n
	if path == RootPath || path == n.Path {
		cp.IsExpanded = !cp.IsExpanded
		return &cp
	}
	for i, c := range n.Children {
		if !IsWithin(path, c.Path) {
			continue
		}
		toggled := c.withExpansionToggled(path)
		if toggled == nil {
			return nil
		}
		cp.Children = append([]*FolderNode(nil), n.Children...)
		cp.Children[i] = toggled
		return &cp
	}
	return nil
}

// Walk visits n and its descendants pre-order. Returning false from fn skips
// the node's children.
func (n *FolderNode) Walk(fn func(*FolderNode) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// AllImages returns every image in the subtree, pre-order.
func (n *FolderNode) AllImages() []models.UploadedImage {
	out := make([]models.UploadedImage, 0, n.ImageCount)
	n.Walk(func(node *FolderNode) bool {
		out = append(out, node.Images...)
		return true
	})
	return out
}
