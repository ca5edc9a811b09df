package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mmynk/partio/internal/apperr"
	"github.com/mmynk/partio/internal/storage/storagetest"
)

func newTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "partio-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	dbPath := filepath.Join(tempDir, "nested", "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store, dbPath
}

func TestSQLiteStore(t *testing.T) {
	store, _ := newTestStore(t)
	defer store.Close()

	storagetest.Run(t, store)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	store, dbPath := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, "group", []byte(`{"members":[]}`), 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	store.Close()

	// Migrations must be idempotent across restarts.
	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	rec, err := reopened.Load(ctx, "group")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if rec.Revision != 1 {
		t.Errorf("Expected revision 1, got %d", rec.Revision)
	}
	if string(rec.Data) != `{"members":[]}` {
		t.Errorf("Unexpected data: %s", rec.Data)
	}

	_, err = reopened.Save(ctx, "group", []byte(`{}`), 0)
	if !errors.Is(err, apperr.ErrStaleRevision) {
		t.Errorf("Expected stale revision after reopen, got %v", err)
	}
}
