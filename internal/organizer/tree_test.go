package organizer

import (
	"encoding/json"
	"testing"
	"time"

	"restaurant-media-organizer/internal/models"
)

func sampleImages() []models.UploadedImage {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []models.UploadedImage{
		{ID: "cake", StoragePath: "42/categories/desserts/cake.jpg", FileSize: 300, Width: 100, Height: 100, UploadedAt: base},
		{ID: "burger", StoragePath: "u1/42/burgers/sub/img.png", FileSize: 100, Width: 50, Height: 50, UploadedAt: base.Add(time.Hour)},
		{ID: "drink", StoragePath: "u1/42/categories/drinks/img.png", FileSize: 200, Width: 60, Height: 60, UploadedAt: base.Add(2 * time.Hour)},
		{ID: "loose", StoragePath: "random/path/file.jpg", FileSize: 50, Width: 20, Height: 20, UploadedAt: base.Add(3 * time.Hour)},
	}
}

func childNames(n *FolderNode) []string {
	names := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		names = append(names, c.Name)
	}
	return names
}

func TestBuild(t *testing.T) {
	root := Build(sampleImages(), []string{"zeta/empty"}, "Chez Nous", "42")

	if root.Name != "Chez Nous" || root.Path != RootPath || root.FullPath != RootPath {
		t.Fatalf("unexpected root %q %q %q", root.Name, root.Path, root.FullPath)
	}
	if !root.IsExpanded {
		t.Error("root should be expanded")
	}
	if got := childNames(root); len(got) != 4 || got[0] != "burgers" || got[1] != "desserts" || got[2] != "drinks" || got[3] != "zeta" {
		t.Errorf("root children = %v", got)
	}
	if len(root.Images) != 1 || root.Images[0].ID != "loose" {
		t.Errorf("root images = %v", root.Images)
	}
	if root.ImageCount != 4 {
		t.Errorf("root count = %d, want 4", root.ImageCount)
	}

	sub := root.Find("burgers/sub")
	if sub == nil {
		t.Fatal("burgers/sub not found")
	}
	if sub.Name != "sub" || len(sub.Images) != 1 || sub.Images[0].ID != "burger" {
		t.Errorf("unexpected burgers/sub node %+v", sub)
	}
	if sub.IsExpanded {
		t.Error("non-root nodes start collapsed")
	}

	empty := root.Find("zeta/empty")
	if empty == nil || empty.ImageCount != 0 {
		t.Errorf("virtual folder missing or not empty: %+v", empty)
	}
}

func TestBuildDefaultsRootName(t *testing.T) {
	if got := Build(nil, nil, "", "42").Name; got != DefaultRootName {
		t.Errorf("root name = %q, want %q", got, DefaultRootName)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	virtual := []string{"menu/2024", "a"}
	first, err := json.Marshal(Build(sampleImages(), virtual, "x", "42"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := json.Marshal(Build(sampleImages(), virtual, "x", "42"))
		if err != nil {
			t.Fatal(err)
		}
		if string(again) != string(first) {
			t.Fatalf("build %d differs", i)
		}
	}
}

func TestBuildImageCountInvariant(t *testing.T) {
	root := Build(sampleImages(), []string{"burgers/empty", "x/y/z"}, "", "42")
	root.Walk(func(n *FolderNode) bool {
		sum := len(n.Images)
		for _, c := range n.Children {
			sum += c.ImageCount
		}
		if n.ImageCount != sum {
			t.Errorf("node %q count = %d, want %d", n.Path, n.ImageCount, sum)
		}
		return true
	})
	if len(root.AllImages()) != root.ImageCount {
		t.Errorf("AllImages = %d, count = %d", len(root.AllImages()), root.ImageCount)
	}
}

func TestBuildDropsDuplicates(t *testing.T) {
	items := append(sampleImages(), models.UploadedImage{
		ID: "cake-copy", StoragePath: "42/categories/desserts/cake-2.jpg", FileSize: 300, Width: 100, Height: 100,
	})
	root := Build(items, nil, "", "42")
	desserts := root.Find("desserts")
	if desserts == nil || len(desserts.Images) != 1 || desserts.Images[0].ID != "cake" {
		t.Errorf("desserts = %+v", desserts)
	}
}

func TestFind(t *testing.T) {
	root := Build(sampleImages(), nil, "", "42")
	tests := []struct {
		path string
		want string
	}{
		{"/", RootPath},
		{"burgers", "burgers"},
		{"burgers/sub", "burgers/sub"},
		{"sub", ""},
		{"missing", ""},
	}
	for _, tt := range tests {
		got := root.Find(tt.path)
		switch {
		case tt.want == "" && got != nil:
			t.Errorf("Find(%q) = %q, want nil", tt.path, got.Path)
		case tt.want != "" && (got == nil || got.Path != tt.want):
			t.Errorf("Find(%q) = %v, want %q", tt.path, got, tt.want)
		}
	}
}

func TestBuildSkipsUncategorizedVirtualFolder(t *testing.T) {
	root := Build(nil, []string{"uncategorized", "uncategorized/old"}, "Chez Nous", "42")
	if got := childNames(root); len(got) != 1 || got[0] != "uncategorized" {
		t.Fatalf("root children = %v", got)
	}
	if root.Find("uncategorized/old") == nil {
		t.Error("nested folder under uncategorized dropped")
	}
}
