package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// blobDirName is the sub-directory holding fast-path blobs, one file per id.
const blobDirName = "blobs"

// DirBlobStore is the fast path: blob bytes written straight to files under
// baseDir/blobs, keyed by the stringified record id. Availability is probed
// once at construction; a store that cannot create or write its directory
// reports unavailable and every write falls back to the database store.
type DirBlobStore struct {
	dir   string
	avail bool
}

// NewDirBlobStore creates the blob directory under baseDir and probes it for
// writability.
func NewDirBlobStore(baseDir string) *DirBlobStore {
	s := &DirBlobStore{dir: filepath.Join(baseDir, blobDirName)}
	s.avail = s.probe()
	return s
}

// NewDisabledDirBlobStore returns a store that reports unavailable. Used when
// the directory store is switched off by configuration.
func NewDisabledDirBlobStore() *DirBlobStore {
	return &DirBlobStore{}
}

// probe checks that the directory exists and accepts writes.
func (s *DirBlobStore) probe() bool {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return false
	}
	probePath := filepath.Join(s.dir, ".probe")
	if err := os.WriteFile(probePath, nil, 0644); err != nil {
		return false
	}
	os.Remove(probePath)
	return true
}

// Dir returns the blob directory path.
func (s *DirBlobStore) Dir() string {
	return s.dir
}

// Available reports whether the directory store accepts writes.
func (s *DirBlobStore) Available() bool {
	return s.avail
}

// Path returns the file path holding the blob for id.
func (s *DirBlobStore) Path(id int64) string {
	return filepath.Join(s.dir, strconv.FormatInt(id, 10))
}

// Write stores the bytes for id and returns the locator recorded in the
// file's metadata.
func (s *DirBlobStore) Write(id int64, data []byte) (string, error) {
	if !s.avail {
		return "", fmt.Errorf("blob directory unavailable")
	}
	if err := os.WriteFile(s.Path(id), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write blob %d: %w", id, err)
	}
	return blobDirName + "/" + strconv.FormatInt(id, 10), nil
}

// Read returns the bytes for id.
func (s *DirBlobStore) Read(id int64) ([]byte, error) {
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %d: %w", id, err)
	}
	return data, nil
}

// Delete removes the blob file for id. A missing file is not an error.
func (s *DirBlobStore) Delete(id int64) error {
	err := os.Remove(s.Path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob %d: %w", id, err)
	}
	return nil
}

// Exists reports whether a blob file is present for id.
func (s *DirBlobStore) Exists(id int64) bool {
	_, err := os.Stat(s.Path(id))
	return err == nil
}
