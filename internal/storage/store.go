package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/user/pagekeep/internal/filetype"
	"github.com/user/pagekeep/internal/model"
	"github.com/user/pagekeep/internal/page"
)

// Store combines the structured record store with the two-tier blob storage:
// a directory store for the fast path and the database blob table as the
// fallback. All operations are page scoped where the contract calls for it.
type Store struct {
	baseDir string
	db      *SQLiteStore
	fast    BlobStore
}

// Option configures a Store.
type Option func(*Store)

// WithoutDirBlobs disables the directory blob store; every upload lands in
// the database fallback.
func WithoutDirBlobs() Option {
	return func(s *Store) {
		s.fast = NewDisabledDirBlobStore()
	}
}

// NewStore opens the storage rooted at baseDir, creating it if necessary.
func NewStore(baseDir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := NewSQLiteStore(baseDir)
	if err != nil {
		return nil, err
	}

	store := &Store{
		baseDir: baseDir,
		db:      db,
		fast:    NewDirBlobStore(baseDir),
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return s.db.Close()
}

// BaseDir returns the data directory path.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// BlobDir returns the fast-path blob directory path.
func (s *Store) BlobDir() string {
	return filepath.Join(s.baseDir, blobDirName)
}

// Records exposes the structured record store.
func (s *Store) Records() RecordStore {
	return s.db
}

// resolvePage maps an absent page name to the default page.
func resolvePage(p string) string {
	if p == "" {
		return page.DefaultPage
	}
	return p
}

// placeBlob decides where the bytes for a new file land: the directory store
// when it is available and the write succeeds, the database fallback
// otherwise. This is the only fallback path in the system; reads never
// migrate between media.
func (s *Store) placeBlob(id int64, data []byte) (model.Storage, string) {
	if s.fast.Available() {
		loc, err := s.fast.Write(id, data)
		if err == nil {
			return model.StorageDir, loc
		}
		slog.Warn("blob dir write failed, falling back to database", "id", id, "err", err)
	}
	return model.StorageDB, fmt.Sprintf("db:%d", id)
}

// AddFile stores an uploaded file: metadata first (assigning the id), then
// the bytes via the placement strategy, then the metadata again with the
// final medium and locator. The declared MIME type is normalized through the
// extension table when empty.
func (s *Store) AddFile(pageName, name, declaredType string, lastModified int64, data []byte) (*model.File, error) {
	f := &model.File{
		Name:         name,
		Type:         filetype.Resolve(name, declaredType),
		Size:         int64(len(data)),
		LastModified: lastModified,
		CreatedAt:    time.Now(),
		Storage:      model.StorageDB,
		Location:     "",
		Page:         resolvePage(pageName),
	}
	if s.fast.Available() {
		f.Storage = model.StorageDir
	}

	id, err := s.db.InsertFile(f)
	if err != nil {
		return nil, err
	}

	medium, loc := s.placeBlob(id, data)
	f.Storage = medium
	f.Location = loc

	if medium == model.StorageDB {
		// Blob bytes and metadata land together.
		if err := s.db.PutBlobWithMeta(f, data); err != nil {
			return nil, err
		}
		return f, nil
	}
	if err := s.db.UpdateFile(f); err != nil {
		return nil, err
	}
	return f, nil
}

// GetFile returns file metadata, or nil when the id is unknown.
func (s *Store) GetFile(id int64) (*model.File, error) {
	return s.db.GetFile(id)
}

// ListFiles returns the files on a page.
func (s *Store) ListFiles(pageName string) ([]*model.File, error) {
	return s.db.ListFiles(resolvePage(pageName))
}

// GetBlob returns the bytes for a file, or nil when either the metadata or
// the blob is missing. A directory-stored blob that cannot be read resolves
// to nil: the fallback table was never populated for it, so there is nothing
// to recover from.
func (s *Store) GetBlob(id int64) ([]byte, error) {
	f, err := s.db.GetFile(id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, nil
	}

	if f.Storage == model.StorageDir {
		data, err := s.fast.Read(id)
		if err != nil {
			return nil, nil
		}
		return data, nil
	}
	return s.db.GetBlob(id)
}

// DeleteFile removes a file's blob and metadata. Idempotent: deleting an
// unknown id is a no-op, and a blob already gone from the directory store
// does not fail the delete.
func (s *Store) DeleteFile(id int64) error {
	f, err := s.db.GetFile(id)
	if err != nil {
		return err
	}
	if f == nil {
		return nil
	}

	if f.Storage == model.StorageDir {
		if err := s.fast.Delete(id); err != nil {
			slog.Warn("failed to delete blob file", "id", id, "err", err)
		}
	} else {
		if err := s.db.DeleteBlob(id); err != nil {
			return err
		}
	}
	return s.db.DeleteFile(id)
}

// SearchFiles matches file names across all pages. See
// SQLiteStore.SearchFiles for the matching contract.
func (s *Store) SearchFiles(query string, limit int) ([]*model.File, error) {
	return s.db.SearchFiles(query, limit)
}

// SaveNote inserts or updates a note. With an id, the stored record is merged:
// title, kind and body are overwritten, the creation time is preserved, the
// update time is set to now and the page is forced to the resolved page.
// Without an id a fresh record is inserted. Returns the note's id.
func (s *Store) SaveNote(n *model.Note, pageName string) (int64, error) {
	if !model.ValidKind(n.Kind) {
		return 0, fmt.Errorf("%w: %q", model.ErrInvalidKind, n.Kind)
	}

	now := time.Now()
	p := resolvePage(pageName)

	if n.ID > 0 {
		existing, err := s.db.GetNote(n.ID)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			merged := *existing
			merged.Title = n.Title
			merged.Kind = n.Kind
			merged.Body = n.Body
			merged.UpdatedAt = now
			merged.Page = p
			return merged.ID, s.db.UpdateNote(&merged)
		}
		// Unknown id: keep it and insert as new.
	}

	n.CreatedAt = now
	n.UpdatedAt = now
	n.Page = p
	return s.db.InsertNote(n)
}

// ListNotesByKind returns the notes of one kind on a page.
func (s *Store) ListNotesByKind(kind model.Kind, pageName string) ([]*model.Note, error) {
	return s.db.ListNotesByKind(kind, resolvePage(pageName))
}

// GetNote returns a note, or nil when the id is unknown.
func (s *Store) GetNote(id int64) (*model.Note, error) {
	return s.db.GetNote(id)
}

// DeleteNote removes a note; deleting an unknown id is a no-op.
func (s *Store) DeleteNote(id int64) error {
	return s.db.DeleteNote(id)
}

// CountPage reports how many files and notes a page holds.
func (s *Store) CountPage(pageName string) (PageCount, error) {
	p := resolvePage(pageName)
	files, err := s.db.CountFiles(p)
	if err != nil {
		return PageCount{}, err
	}
	notes, err := s.db.CountNotes(p)
	if err != nil {
		return PageCount{}, err
	}
	return PageCount{Files: files, Notes: notes}, nil
}

// PurgePage tears down all data belonging to one page: every file's blob and
// metadata, then every note. Each sub-delete is best effort; a failure is
// logged and the rest of the batch continues. The teardown is not atomic: a
// crash mid-way can leave orphaned blobs or notes, an accepted limitation
// for local single-user data.
//
// PurgePage does not touch the page registry; callers remove the page name
// afterwards.
func (s *Store) PurgePage(pageName string) error {
	p := resolvePage(pageName)

	files, err := s.db.ListFiles(p)
	if err != nil {
		return err
	}
	for _, f := range files {
		if f.Storage != model.StorageDir {
			continue
		}
		if err := s.fast.Delete(f.ID); err != nil {
			slog.Warn("purge: failed to delete blob file", "id", f.ID, "err", err)
		}
	}
	for _, f := range files {
		if err := s.db.DeleteBlob(f.ID); err != nil {
			slog.Warn("purge: failed to delete fallback blob", "id", f.ID, "err", err)
		}
		if err := s.db.DeleteFile(f.ID); err != nil {
			slog.Warn("purge: failed to delete file metadata", "id", f.ID, "err", err)
		}
	}

	notes, err := s.db.ListNotes(p)
	if err != nil {
		return err
	}
	for _, n := range notes {
		if err := s.db.DeleteNote(n.ID); err != nil {
			slog.Warn("purge: failed to delete note", "id", n.ID, "err", err)
		}
	}
	return nil
}

// ReconcileBlobs reports the ids of directory-stored files whose blob has
// vanished from disk. It never repairs or rewrites anything; reads of such
// files keep resolving to nil.
func (s *Store) ReconcileBlobs() ([]int64, error) {
	files, err := s.db.ListAllFiles()
	if err != nil {
		return nil, err
	}

	var missing []int64
	for _, f := range files {
		if f.Storage != model.StorageDir {
			continue
		}
		if _, err := s.fast.Read(f.ID); err != nil {
			missing = append(missing, f.ID)
		}
	}
	return missing, nil
}
