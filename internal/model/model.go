// Package model provides core data types for pagekeep.
package model

import "time"

// Storage identifies the medium holding a file's bytes.
type Storage string

const (
	// StorageDir is the fast path: one file per blob under the blobs directory.
	StorageDir Storage = "dir"
	// StorageDB is the fallback: blob bytes stored in the database.
	StorageDB Storage = "db"
)

// File describes an uploaded file. The bytes live in the blob store
// identified by Storage; File itself is metadata only.
type File struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"` // canonical MIME type
	Size         int64     `json:"size"`
	LastModified int64     `json:"last_modified"` // epoch milliseconds, as reported by the uploader
	CreatedAt    time.Time `json:"created_at"`
	Storage      Storage   `json:"storage"`
	Location     string    `json:"location"` // opaque locator, e.g. "blobs/7" or "db:7"
	Page         string    `json:"page"`
}

// Kind discriminates note records. The body encoding depends on the kind.
type Kind string

const (
	KindNotes    Kind = "notes"
	KindToDo     Kind = "to-do"
	KindAccounts Kind = "accounts"
	KindFiles    Kind = "files"
)

// ValidKind reports whether k is one of the known note kinds.
func ValidKind(k Kind) bool {
	switch k {
	case KindNotes, KindToDo, KindAccounts, KindFiles:
		return true
	}
	return false
}

// Note is a generic typed record. For KindAccounts and KindToDo the body is
// JSON (see AccountBody and ToDoBody); for KindNotes it is free text; for
// KindFiles it carries no meaningful body.
type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Kind      Kind      `json:"kind"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Page      string    `json:"page"`
}
