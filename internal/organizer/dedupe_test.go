package organizer

import (
	"testing"

	"restaurant-media-organizer/internal/models"
)

func TestDedupe(t *testing.T) {
	items := []models.UploadedImage{
		{ID: "1", StoragePath: "u1/42/menu/a.jpg", FileSize: 100, Width: 10, Height: 10},
		{ID: "2", StoragePath: "u1/42/menu/b.jpg", FileSize: 100, Width: 10, Height: 10},
		{ID: "3", StoragePath: "u1/42/menu/c.jpg", FileSize: 200, Width: 10, Height: 10},
		{ID: "4", StoragePath: "u1/42/bar/a.jpg", FileSize: 100, Width: 10, Height: 10},
		{ID: "5", StoragePath: "u1/42/menu/d.jpg", FileSize: 100, Width: 10, Height: 12},
		{ID: "6", StoragePath: "u1/42/menu/e.jpg", FileSize: 100, Width: 10, Height: 10},
	}

	got := Dedupe(items)

	wantIDs := []string{"1", "3", "4", "5"}
	if len(got) != len(wantIDs) {
		t.Fatalf("Dedupe kept %d items, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("item %d = %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestDedupeEmpty(t *testing.T) {
	if got := Dedupe(nil); len(got) != 0 {
		t.Errorf("Dedupe(nil) = %v", got)
	}
}
