package preset

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"glitchcam-server-go/internal/platform/storage"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "presets.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestSQLiteStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLite(openTestDB(t))
	if err != nil {
		t.Fatalf("NewSQLite error: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close(ctx)
	})

	p := Preset{
		Name:   "datamosh",
		Source: "1234",
		Dest:   "4321",
		Mode:   "webp",
	}
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := store.Get(ctx, p.Name)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Source != p.Source || got.Dest != p.Dest || got.Mode != p.Mode {
		t.Fatalf("unexpected preset: %+v", got)
	}

	// Overwrite updates fields in place instead of inserting a duplicate row.
	p.Dest = "ffff"
	if err := store.Save(ctx, p); err != nil {
		t.Fatalf("overwrite error: %v", err)
	}
	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(list) != 1 || list[0].Dest != "ffff" {
		t.Fatalf("unexpected list after overwrite: %v", list)
	}

	if err := store.Remove(ctx, p.Name); err != nil {
		t.Fatalf("Remove error: %v", err)
	}
	if _, err := store.Get(ctx, p.Name); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after removal, got %v", err)
	}
}

func TestNewSQLiteRequiresHandle(t *testing.T) {
	if _, err := NewSQLite(nil); err == nil {
		t.Fatalf("expected error for nil handle")
	}
}
