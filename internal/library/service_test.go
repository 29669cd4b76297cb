package library

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"sort"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"restaurant-media-organizer/internal/models"
	"restaurant-media-organizer/internal/organizer"
	"restaurant-media-organizer/internal/websocket"
)

type memoryStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	failCopy bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (m *memoryStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryStore) Copy(_ context.Context, src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCopy {
		return errors.New("copy failed")
	}
	data, ok := m.objects[src]
	if !ok {
		return fmt.Errorf("no object %s", src)
	}
	m.objects[dst] = data
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStore) PublicURL(key string) string {
	return "https://cdn.example/" + key
}

func (m *memoryStore) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.objects))
	for k := range m.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type recordingNotifier struct {
	mu      sync.Mutex
	actions []websocket.Action
}

func (n *recordingNotifier) MediaUpdated(_, _ string, action websocket.Action, _ map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.actions = append(n.actions, action)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Business{}, &models.UploadedImage{}, &models.BusinessFolder{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

type fixture struct {
	svc      *Service
	db       *gorm.DB
	store    *memoryStore
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	if err := db.Create(&models.Business{ID: "42", UserID: "u1", Name: "Chez Nous"}).Error; err != nil {
		t.Fatal(err)
	}
	store := newMemoryStore()
	notifier := &recordingNotifier{}
	return &fixture{
		svc:      NewService(db, store, notifier, nil),
		db:       db,
		store:    store,
		notifier: notifier,
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.New(w, h, color.NRGBA{G: 255, A: 255}), imaging.PNG); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func (f *fixture) upload(t *testing.T, category string, names ...string) []models.UploadedImage {
	t.Helper()
	files := make([]UploadFile, 0, len(names))
	for i, name := range names {
		files = append(files, UploadFile{Filename: name, Data: pngBytes(t, 10+i, 10)})
	}
	imgs, err := f.svc.UploadImages(context.Background(), "u1", "42", category, files)
	if err != nil {
		t.Fatalf("UploadImages: %v", err)
	}
	return imgs
}

func folderOf(t *testing.T, b *models.Business, id string) string {
	t.Helper()
	for _, img := range b.UploadedImages {
		if img.ID == id {
			return organizer.ResolveFolder(img, b.MediaRoot()).Path()
		}
	}
	t.Fatalf("image %s not in business", id)
	return ""
}

func TestUploadImages(t *testing.T) {
	f := newFixture(t)
	imgs := f.upload(t, "/menu/", "a.png", "b.png")

	if len(imgs) != 2 {
		t.Fatalf("uploaded %d", len(imgs))
	}
	if imgs[0].Width != 10 || imgs[0].Height != 10 || imgs[0].Format != "png" {
		t.Errorf("probe = %+v", imgs[0])
	}
	if got := imgs[0].StoragePath; got != "u1/42/menu/"+imgs[0].ID+".png" {
		t.Errorf("StoragePath = %q", got)
	}
	if len(f.store.keys()) != 2 {
		t.Errorf("objects = %v", f.store.keys())
	}

	b, err := f.svc.GetBusiness(context.Background(), "u1", "42")
	if err != nil {
		t.Fatal(err)
	}
	root := organizer.Build(b.UploadedImages, b.Folders, b.DisplayName(), b.MediaRoot())
	if n := root.Find("menu"); n == nil || n.ImageCount != 2 {
		t.Errorf("menu node = %+v", n)
	}
}

func TestUploadDefaultsToUncategorized(t *testing.T) {
	f := newFixture(t)
	imgs := f.upload(t, "", "a.png")
	b, _ := f.svc.GetBusiness(context.Background(), "u1", "42")
	if got := folderOf(t, b, imgs[0].ID); got != "" {
		t.Errorf("folder = %q, want root", got)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	f := newFixture(t)
	files := []UploadFile{
		{Filename: "ok.png", Data: pngBytes(t, 4, 4)},
		{Filename: "notes.txt", Data: []byte("hello")},
	}
	_, err := f.svc.UploadImages(context.Background(), "u1", "42", "menu", files)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v", err)
	}
	if len(f.store.keys()) != 0 {
		t.Errorf("orphaned objects: %v", f.store.keys())
	}
}

func TestGetBusinessOwnership(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.GetBusiness(context.Background(), "intruder", "42"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateFolderIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := f.svc.CreateFolder(ctx, "u1", "42", "/events/"); err != nil {
			t.Fatalf("CreateFolder: %v", err)
		}
	}
	b, _ := f.svc.GetBusiness(ctx, "u1", "42")
	if len(b.Folders) != 1 || b.Folders[0] != "events" {
		t.Errorf("Folders = %v", b.Folders)
	}
	if err := f.svc.CreateFolder(ctx, "u1", "42", "a/../b"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("err = %v", err)
	}
}

func TestRenameFolder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	top := f.upload(t, "a", "one.png")
	nested := f.upload(t, "a/b", "two.png")
	other := f.upload(t, "ab", "three.png")
	if err := f.svc.CreateFolder(ctx, "u1", "42", "a/empty"); err != nil {
		t.Fatal(err)
	}

	b, err := f.svc.RenameFolder(ctx, "u1", "42", "a", "x")
	if err != nil {
		t.Fatalf("RenameFolder: %v", err)
	}

	if got := folderOf(t, b, top[0].ID); got != "x" {
		t.Errorf("top folder = %q", got)
	}
	if got := folderOf(t, b, nested[0].ID); got != "x/b" {
		t.Errorf("nested folder = %q", got)
	}
	if got := folderOf(t, b, other[0].ID); got != "ab" {
		t.Errorf("sibling folder = %q", got)
	}
	if len(b.Folders) != 1 || b.Folders[0] != "x/empty" {
		t.Errorf("Folders = %v", b.Folders)
	}
	for _, key := range f.store.keys() {
		if organizer.IsWithin(organizer.FolderPath(key, "42"), "a") {
			t.Errorf("old object left behind: %s", key)
		}
	}
	if len(f.store.keys()) != 3 {
		t.Errorf("objects = %v", f.store.keys())
	}

	if _, err := f.svc.RenameFolder(ctx, "u1", "42", "missing", "y"); !errors.Is(err, ErrNotFound) {
		t.Errorf("rename missing err = %v", err)
	}
}

func TestRenameFolderCopyFailureLeavesState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	imgs := f.upload(t, "a", "one.png")
	before := f.store.keys()
	f.store.failCopy = true

	if _, err := f.svc.RenameFolder(ctx, "u1", "42", "a", "x"); err == nil {
		t.Fatal("expected error")
	}
	b, _ := f.svc.GetBusiness(ctx, "u1", "42")
	if got := folderOf(t, b, imgs[0].ID); got != "a" {
		t.Errorf("folder = %q after failed rename", got)
	}
	if got := f.store.keys(); len(got) != len(before) || got[0] != before[0] {
		t.Errorf("objects = %v, want %v", got, before)
	}
}

func TestDeleteFolder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.upload(t, "a", "one.png")
	f.upload(t, "a/b", "two.png")
	keep := f.upload(t, "ab", "three.png")
	if err := f.svc.CreateFolder(ctx, "u1", "42", "a/empty"); err != nil {
		t.Fatal(err)
	}

	b, err := f.svc.DeleteFolder(ctx, "u1", "42", "a")
	if err != nil {
		t.Fatalf("DeleteFolder: %v", err)
	}
	if len(b.UploadedImages) != 1 || b.UploadedImages[0].ID != keep[0].ID {
		t.Errorf("images = %+v", b.UploadedImages)
	}
	if len(b.Folders) != 0 {
		t.Errorf("Folders = %v", b.Folders)
	}
	if got := f.store.keys(); len(got) != 1 || got[0] != keep[0].StoragePath {
		t.Errorf("objects = %v", got)
	}

	if _, err := f.svc.DeleteFolder(ctx, "u1", "42", "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestMoveImages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	imgs := f.upload(t, "", "one.png", "two.png")

	b, err := f.svc.MoveImages(ctx, "u1", "42", []string{imgs[0].ID}, "specials")
	if err != nil {
		t.Fatalf("MoveImages: %v", err)
	}
	if got := folderOf(t, b, imgs[0].ID); got != "specials" {
		t.Errorf("moved folder = %q", got)
	}
	if got := folderOf(t, b, imgs[1].ID); got != "" {
		t.Errorf("unmoved folder = %q", got)
	}
	if len(b.Folders) != 1 || b.Folders[0] != "specials" {
		t.Errorf("Folders = %v", b.Folders)
	}

	if _, err := f.svc.MoveImages(ctx, "u1", "42", []string{"ghost"}, "specials"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id err = %v", err)
	}
	if _, err := f.svc.MoveImages(ctx, "u1", "42", nil, "specials"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("no ids err = %v", err)
	}
}

func TestMoveImagesToRoot(t *testing.T) {
	for _, target := range []string{"/", "uncategorized"} {
		t.Run(target, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			imgs := f.upload(t, "menu", "one.png")

			b, err := f.svc.MoveImages(ctx, "u1", "42", []string{imgs[0].ID}, target)
			if err != nil {
				t.Fatalf("MoveImages: %v", err)
			}
			if got := folderOf(t, b, imgs[0].ID); got != "" {
				t.Errorf("folder = %q, want root", got)
			}
			for _, folder := range b.Folders {
				if folder == "uncategorized" || folder == "" {
					t.Errorf("Folders = %v", b.Folders)
				}
			}
			if organizer.Build(b.UploadedImages, b.Folders, b.Name, b.MediaRoot()).Find("uncategorized") != nil {
				t.Error("uncategorized shown as a folder")
			}
		})
	}

	f := newFixture(t)
	imgs := f.upload(t, "", "one.png")
	if _, err := f.svc.MoveImages(context.Background(), "u1", "42", []string{imgs[0].ID}, "  "); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("blank target err = %v", err)
	}
}

func TestDeleteImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	imgs := f.upload(t, "menu", "one.png")

	if err := f.svc.DeleteImage(ctx, "u1", "42", imgs[0].ID); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
	if len(f.store.keys()) != 0 {
		t.Errorf("objects = %v", f.store.keys())
	}
	if err := f.svc.DeleteImage(ctx, "u1", "42", imgs[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestExport(t *testing.T) {
	f := newFixture(t)
	f.upload(t, "menu/2024", "one.png")
	rows, err := f.svc.Export(context.Background(), "u1", "42")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Folder != "menu/2024" || rows[0].Width != 10 {
		t.Errorf("rows = %+v", rows)
	}
}

func TestNotifications(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	imgs := f.upload(t, "", "one.png")
	_ = f.svc.CreateFolder(ctx, "u1", "42", "x")
	_, _ = f.svc.MoveImages(ctx, "u1", "42", []string{imgs[0].ID}, "x")

	want := []websocket.Action{websocket.ActionUpload, websocket.ActionCreateFolder, websocket.ActionMoveImages}
	if len(f.notifier.actions) != len(want) {
		t.Fatalf("actions = %v", f.notifier.actions)
	}
	for i := range want {
		if f.notifier.actions[i] != want[i] {
			t.Errorf("action %d = %s, want %s", i, f.notifier.actions[i], want[i])
		}
	}
}
