package users

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreLoadMissing(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "users"))

	if _, err := store.Load(context.Background(), 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileStoreSaveCreatesDirAndOverwrites(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "users")
	store := NewFileStore(dir)

	rec := NewRecord(Identity{ID: 100, FirstName: "Alice"})
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	rec.Name = "Alice"
	rec.Email = "alice@example.com"
	rec.TaskIndex = 0
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Load(ctx, 100)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != rec {
		t.Fatalf("expected %+v, got %+v", rec, got)
	}
	if _, err := os.Stat(filepath.Join(dir, "100.json")); err != nil {
		t.Fatalf("expected per-user file: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected no temp files left behind, got %d entries", len(entries))
	}
}

func TestFileStoreRejectsCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "5.json"), []byte(`{"id": 5}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewFileStore(dir)

	if _, err := store.Load(context.Background(), 5); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
}

func TestFileStoreRejectsMismatchedID(t *testing.T) {
	dir := t.TempDir()
	doc := `{"id": 6, "name": "", "email": "", "task": -1, "score": 0}`
	if err := os.WriteFile(filepath.Join(dir, "5.json"), []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := NewFileStore(dir).Load(context.Background(), 5); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
}

func TestFileStoreListSkipsForeignAndCorruptFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewFileStore(dir)
	for _, id := range []int64{1, 2} {
		if err := store.Save(ctx, NewRecord(Identity{ID: id})); err != nil {
			t.Fatalf("save %d: %v", id, err)
		}
	}
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "3.json"), []byte("{"), 0o644)

	recs, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
}

func TestFileStoreListEmptyDir(t *testing.T) {
	recs, err := NewFileStore(filepath.Join(t.TempDir(), "absent")).List(context.Background())
	if err != nil || len(recs) != 0 {
		t.Fatalf("expected empty list, got %v, %v", recs, err)
	}
}
