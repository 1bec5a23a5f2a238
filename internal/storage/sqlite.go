package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/user/pagekeep/internal/model"
	"github.com/user/pagekeep/internal/page"
)

// schemaVersion is the current PRAGMA user_version.
// v1 predates pages: the files and notes tables had no page column.
// v2 adds the page column and index to both tables.
const schemaVersion = 2

// SQLiteStore implements RecordStore, plus the fallback blob table that
// backs files the directory store could not take.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (and if needed creates or upgrades) the database at
// baseDir/pagekeep.db.
func NewSQLiteStore(baseDir string) (*SQLiteStore, error) {
	dbPath := filepath.Join(baseDir, "pagekeep.db")

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db, dbPath: dbPath}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// migrate brings the schema to the current version. Upgrades are additive:
// existing records are never dropped, and already-present columns or indexes
// are tolerated as no-ops.
func (s *SQLiteStore) migrate() error {
	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version == 0 {
		if err := s.createSchema(); err != nil {
			return err
		}
	} else if version < schemaVersion {
		if err := s.upgradeToPages(); err != nil {
			return err
		}
	}

	if version != schemaVersion {
		if _, err := s.db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
			return fmt.Errorf("failed to set schema version: %w", err)
		}
	}
	return nil
}

// createSchema creates all tables and indexes at the current version.
func (s *SQLiteStore) createSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			size INTEGER NOT NULL,
			last_modified INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			storage TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			page TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_created ON files(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_files_name ON files(name)`,
		`CREATE INDEX IF NOT EXISTS idx_files_page ON files(page)`,
		`CREATE TABLE IF NOT EXISTS file_blobs (
			id INTEGER PRIMARY KEY,
			data BLOB NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			page TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_kind ON notes(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_updated ON notes(updated_at)`,
		`CREATE INDEX IF NOT EXISTS idx_notes_page ON notes(page)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// upgradeToPages performs the v1 -> v2 migration: add the page column and
// index to the files and notes tables, in place. Records keep a NULL page,
// which scoped queries resolve to the default page.
func (s *SQLiteStore) upgradeToPages() error {
	for _, table := range []string{"files", "notes"} {
		exists, err := s.columnExists(table, "page")
		if err != nil {
			return err
		}
		if !exists {
			if _, err := s.db.Exec(fmt.Sprintf(`ALTER TABLE "%s" ADD COLUMN page TEXT`, table)); err != nil {
				return fmt.Errorf("failed to add page column to %s: %w", table, err)
			}
		}
		idx := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS "idx_%s_page" ON "%s"(page)`, table, table)
		if _, err := s.db.Exec(idx); err != nil {
			return fmt.Errorf("failed to create page index on %s: %w", table, err)
		}
	}
	// The fallback blob table may be missing entirely on old databases.
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS file_blobs (id INTEGER PRIMARY KEY, data BLOB NOT NULL)`)
	if err != nil {
		return fmt.Errorf("failed to create blob table: %w", err)
	}
	return nil
}

// columnExists checks if a column exists in a table.
func (s *SQLiteStore) columnExists(tableName, columnName string) (bool, error) {
	rows, err := s.db.Query(fmt.Sprintf(`PRAGMA table_info("%s")`, tableName))
	if err != nil {
		return false, fmt.Errorf("failed to get table info: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, err
		}
		if strings.EqualFold(name, columnName) {
			return true, nil
		}
	}
	return false, rows.Err()
}

// pageClause builds the WHERE fragment scoping a query to one page. Records
// written before pages existed carry a NULL or empty page and belong to the
// default page.
func pageClause(p string) (string, []interface{}) {
	if p == "" {
		p = page.DefaultPage
	}
	if p == page.DefaultPage {
		return `(page = ? OR page IS NULL OR page = '')`, []interface{}{p}
	}
	return `page = ?`, []interface{}{p}
}

// nullPage stores the page column; the default page is written explicitly.
func nullPage(p string) string {
	if p == "" {
		return page.DefaultPage
	}
	return p
}

// ---- files ----

// InsertFile inserts file metadata and assigns the record id.
func (s *SQLiteStore) InsertFile(f *model.File) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO files (name, type, size, last_modified, created_at, storage, location, page)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, f.Name, f.Type, f.Size, f.LastModified, f.CreatedAt.Format(time.RFC3339), string(f.Storage), f.Location, nullPage(f.Page))
	if err != nil {
		return 0, fmt.Errorf("failed to insert file: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read file id: %w", err)
	}
	f.ID = id
	return id, nil
}

// UpdateFile replaces the stored metadata for f.ID with f.
func (s *SQLiteStore) UpdateFile(f *model.File) error {
	_, err := s.db.Exec(`
		UPDATE files SET name = ?, type = ?, size = ?, last_modified = ?, created_at = ?, storage = ?, location = ?, page = ?
		WHERE id = ?
	`, f.Name, f.Type, f.Size, f.LastModified, f.CreatedAt.Format(time.RFC3339), string(f.Storage), f.Location, nullPage(f.Page), f.ID)
	if err != nil {
		return fmt.Errorf("failed to update file: %w", err)
	}
	return nil
}

const fileColumns = `id, name, type, size, last_modified, created_at, storage, location, page`

// GetFile returns the metadata for id, or nil when no such file exists.
func (s *SQLiteStore) GetFile(id int64) (*model.File, error) {
	row := s.db.QueryRow(`SELECT `+fileColumns+` FROM files WHERE id = ?`, id)
	f, err := scanFile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return f, nil
}

// ListFiles returns the files belonging to one page, oldest first.
func (s *SQLiteStore) ListFiles(p string) ([]*model.File, error) {
	clause, args := pageClause(p)
	rows, err := s.db.Query(`SELECT `+fileColumns+` FROM files WHERE `+clause+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()
	return collectFiles(rows)
}

// ListAllFiles returns every file across all pages.
func (s *SQLiteStore) ListAllFiles() ([]*model.File, error) {
	rows, err := s.db.Query(`SELECT ` + fileColumns + ` FROM files ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()
	return collectFiles(rows)
}

// DeleteFile removes file metadata. Deleting a missing id is a no-op.
func (s *SQLiteStore) DeleteFile(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM files WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// escapeLike escapes LIKE wildcards so the query matches them literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// SearchFiles matches the query as a case-insensitive substring of the file
// name, across all pages, newest first, capped at limit. An empty query
// returns no results: search is opt-in, not a browse mode.
func (s *SQLiteStore) SearchFiles(query string, limit int) ([]*model.File, error) {
	if query == "" {
		return []*model.File{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	rows, err := s.db.Query(`
		SELECT `+fileColumns+` FROM files
		WHERE lower(name) LIKE ? ESCAPE '\'
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search files: %w", err)
	}
	defer rows.Close()
	return collectFiles(rows)
}

// CountFiles returns the number of files on a page.
func (s *SQLiteStore) CountFiles(p string) (int, error) {
	clause, args := pageClause(p)
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM files WHERE `+clause, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count files: %w", err)
	}
	return count, nil
}

// ---- fallback blobs ----

// PutBlob stores blob bytes in the fallback table under the file's id.
func (s *SQLiteStore) PutBlob(id int64, data []byte) error {
	if _, err := s.db.Exec(`INSERT OR REPLACE INTO file_blobs (id, data) VALUES (?, ?)`, id, data); err != nil {
		return fmt.Errorf("failed to store blob: %w", err)
	}
	return nil
}

// PutBlobWithMeta stores the blob and the updated metadata as one unit.
func (s *SQLiteStore) PutBlobWithMeta(f *model.File, data []byte) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO file_blobs (id, data) VALUES (?, ?)`, f.ID, data); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to store blob: %w", err)
	}
	_, err = tx.Exec(`
		UPDATE files SET name = ?, type = ?, size = ?, last_modified = ?, created_at = ?, storage = ?, location = ?, page = ?
		WHERE id = ?
	`, f.Name, f.Type, f.Size, f.LastModified, f.CreatedAt.Format(time.RFC3339), string(f.Storage), f.Location, nullPage(f.Page), f.ID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update file: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit blob write: %w", err)
	}
	return nil
}

// GetBlob returns fallback blob bytes, or nil when no blob is stored for id.
func (s *SQLiteStore) GetBlob(id int64) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM file_blobs WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, nil
}

// DeleteBlob removes fallback blob bytes. Deleting a missing id is a no-op.
func (s *SQLiteStore) DeleteBlob(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM file_blobs WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}

// ---- notes ----

const noteColumns = `id, title, kind, body, created_at, updated_at, page`

// InsertNote inserts a note record. When n.ID is non-zero the id is kept,
// otherwise a fresh one is assigned.
func (s *SQLiteStore) InsertNote(n *model.Note) (int64, error) {
	var res sql.Result
	var err error
	if n.ID > 0 {
		res, err = s.db.Exec(`
			INSERT INTO notes (id, title, kind, body, created_at, updated_at, page)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, n.ID, n.Title, string(n.Kind), n.Body, n.CreatedAt.Format(time.RFC3339), n.UpdatedAt.Format(time.RFC3339), nullPage(n.Page))
	} else {
		res, err = s.db.Exec(`
			INSERT INTO notes (title, kind, body, created_at, updated_at, page)
			VALUES (?, ?, ?, ?, ?, ?)
		`, n.Title, string(n.Kind), n.Body, n.CreatedAt.Format(time.RFC3339), n.UpdatedAt.Format(time.RFC3339), nullPage(n.Page))
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert note: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read note id: %w", err)
	}
	n.ID = id
	return id, nil
}

// UpdateNote replaces the stored note for n.ID with n.
func (s *SQLiteStore) UpdateNote(n *model.Note) error {
	_, err := s.db.Exec(`
		UPDATE notes SET title = ?, kind = ?, body = ?, created_at = ?, updated_at = ?, page = ?
		WHERE id = ?
	`, n.Title, string(n.Kind), n.Body, n.CreatedAt.Format(time.RFC3339), n.UpdatedAt.Format(time.RFC3339), nullPage(n.Page), n.ID)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return nil
}

// GetNote returns the note for id, or nil when no such note exists.
func (s *SQLiteStore) GetNote(id int64) (*model.Note, error) {
	row := s.db.QueryRow(`SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return n, nil
}

// ListNotes returns all notes on a page regardless of kind.
func (s *SQLiteStore) ListNotes(p string) ([]*model.Note, error) {
	clause, args := pageClause(p)
	rows, err := s.db.Query(`SELECT `+noteColumns+` FROM notes WHERE `+clause+` ORDER BY updated_at DESC, id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()
	return collectNotes(rows)
}

// ListNotesByKind returns the notes of one kind on a page, most recently
// updated first.
func (s *SQLiteStore) ListNotesByKind(kind model.Kind, p string) ([]*model.Note, error) {
	clause, args := pageClause(p)
	args = append([]interface{}{string(kind)}, args...)
	rows, err := s.db.Query(`SELECT `+noteColumns+` FROM notes WHERE kind = ? AND `+clause+` ORDER BY updated_at DESC, id DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()
	return collectNotes(rows)
}

// DeleteNote removes a note. Deleting a missing id is a no-op.
func (s *SQLiteStore) DeleteNote(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

// CountNotes returns the number of notes on a page.
func (s *SQLiteStore) CountNotes(p string) (int, error) {
	clause, args := pageClause(p)
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM notes WHERE `+clause, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count notes: %w", err)
	}
	return count, nil
}

// ---- scanning ----

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFile(row rowScanner) (*model.File, error) {
	var (
		f         model.File
		createdAt string
		storage   string
		p         sql.NullString
	)
	if err := row.Scan(&f.ID, &f.Name, &f.Type, &f.Size, &f.LastModified, &createdAt, &storage, &f.Location, &p); err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		f.CreatedAt = t
	}
	f.Storage = model.Storage(storage)
	if p.Valid {
		f.Page = p.String
	}
	return &f, nil
}

func collectFiles(rows *sql.Rows) ([]*model.File, error) {
	var files []*model.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func scanNote(row rowScanner) (*model.Note, error) {
	var (
		n                    model.Note
		kind                 string
		createdAt, updatedAt string
		p                    sql.NullString
	)
	if err := row.Scan(&n.ID, &n.Title, &kind, &n.Body, &createdAt, &updatedAt, &p); err != nil {
		return nil, err
	}
	n.Kind = model.Kind(kind)
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		n.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		n.UpdatedAt = t
	}
	if p.Valid {
		n.Page = p.String
	}
	return &n, nil
}

func collectNotes(rows *sql.Rows) ([]*model.Note, error) {
	var notes []*model.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}
