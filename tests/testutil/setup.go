// Package testutil provides shared helpers for pagekeep integration tests.
package testutil

import (
	"os"
	"testing"
	"time"

	"github.com/user/pagekeep/internal/model"
	"github.com/user/pagekeep/internal/page"
	"github.com/user/pagekeep/internal/storage"
)

// SetupStore creates a temporary data directory with an open store and
// page registry. Everything is cleaned up via t.Cleanup.
func SetupStore(t *testing.T, opts ...storage.Option) (string, *storage.Store, *page.Registry) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "pagekeep-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	store, err := storage.NewStore(tmpDir, opts...)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})

	return tmpDir, store, page.NewRegistry(tmpDir)
}

// SeedFile stores a file on the given page and returns its record.
func SeedFile(t *testing.T, store *storage.Store, pageName, name, content string) *model.File {
	t.Helper()

	f, err := store.AddFile(pageName, name, "", time.Now().UnixMilli(), []byte(content))
	if err != nil {
		t.Fatalf("failed to seed file %s: %v", name, err)
	}
	return f
}

// SeedNote stores a note on the given page and returns its id.
func SeedNote(t *testing.T, store *storage.Store, pageName, title string, kind model.Kind, body string) int64 {
	t.Helper()

	id, err := store.SaveNote(&model.Note{Title: title, Kind: kind, Body: body}, pageName)
	if err != nil {
		t.Fatalf("failed to seed note %s: %v", title, err)
	}
	return id
}
