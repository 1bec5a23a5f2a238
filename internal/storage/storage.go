// Package storage provides persistent storage for pagekeep files and notes.
package storage

import (
	"github.com/user/pagekeep/internal/model"
)

// RecordStore is the structured side of persistence: file metadata and note
// records with indexed, page-scoped queries. SQLiteStore is the production
// implementation.
type RecordStore interface {
	// File metadata
	InsertFile(f *model.File) (int64, error)
	UpdateFile(f *model.File) error
	GetFile(id int64) (*model.File, error)
	ListFiles(page string) ([]*model.File, error)
	ListAllFiles() ([]*model.File, error)
	DeleteFile(id int64) error
	SearchFiles(query string, limit int) ([]*model.File, error)

	// Notes
	InsertNote(n *model.Note) (int64, error)
	UpdateNote(n *model.Note) error
	GetNote(id int64) (*model.Note, error)
	ListNotes(page string) ([]*model.Note, error)
	ListNotesByKind(kind model.Kind, page string) ([]*model.Note, error)
	DeleteNote(id int64) error

	// Counts
	CountFiles(page string) (int, error)
	CountNotes(page string) (int, error)

	Close() error
}

// BlobStore persists raw file bytes by numeric id.
type BlobStore interface {
	// Available reports whether the store can accept writes at all.
	Available() bool
	// Write stores the bytes for id and returns an opaque locator.
	Write(id int64, data []byte) (string, error)
	// Read returns the bytes for id.
	Read(id int64) ([]byte, error)
	// Delete removes the bytes for id. Deleting a missing id is not an error.
	Delete(id int64) error
}

// PageCount summarizes how much data a page holds. Used to preview the blast
// radius of a page teardown.
type PageCount struct {
	Files int `json:"files"`
	Notes int `json:"notes"`
}
