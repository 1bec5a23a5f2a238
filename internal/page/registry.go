// Package page manages the list of named pages and the active selection.
package page

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/user/pagekeep/internal/model"
)

// DefaultPage always exists and can never be deleted.
const DefaultPage = "main"

// Registry persists the page list and active page as JSON in the base
// directory. A missing or corrupt file is treated as the seeded default.
type Registry struct {
	path string
}

// state is the on-disk shape of the registry file.
type state struct {
	Pages  []string `json:"pages"`
	Active string   `json:"active"`
}

// NewRegistry creates a registry stored at baseDir/pages.json.
func NewRegistry(baseDir string) *Registry {
	return &Registry{path: filepath.Join(baseDir, "pages.json")}
}

// Normalize trims and lowercases a page name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// load reads the registry state, falling back to the seeded default on any
// read or parse failure.
func (r *Registry) load() state {
	st := state{Pages: []string{DefaultPage}, Active: DefaultPage}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return st
	}

	var read state
	if err := json.Unmarshal(data, &read); err != nil {
		return st
	}
	if len(read.Pages) > 0 {
		st.Pages = read.Pages
	}
	if read.Active != "" {
		st.Active = read.Active
	}

	// The default page is always a member, whatever the file says.
	if !contains(st.Pages, DefaultPage) {
		st.Pages = append([]string{DefaultPage}, st.Pages...)
	}
	// The active page must be a member.
	if !contains(st.Pages, st.Active) {
		st.Active = DefaultPage
	}
	return st
}

// save writes the registry state atomically via a temp file and rename.
func (r *Registry) save(st state) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create base directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal page registry: %w", err)
	}
	data = append(data, '\n')

	tmpFile, err := os.CreateTemp(dir, "pages-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write page registry: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// List returns all page names. The first call seeds the registry file with
// the default page.
func (r *Registry) List() ([]string, error) {
	st := r.load()
	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		if err := r.save(st); err != nil {
			return nil, err
		}
	}
	return st.Pages, nil
}

// Active returns the currently active page name.
func (r *Registry) Active() string {
	return r.load().Active
}

// SetActive records the active page. The name is not validated beyond being
// non-empty; switching to an unknown page is the caller's concern.
func (r *Registry) SetActive(name string) error {
	if name == "" {
		return nil
	}
	st := r.load()
	st.Active = name
	return r.save(st)
}

// Add registers a page name. The name is normalized; empty names and
// duplicates are no-ops.
func (r *Registry) Add(name string) error {
	clean := Normalize(name)
	if clean == "" {
		return nil
	}
	st := r.load()
	if contains(st.Pages, clean) {
		return nil
	}
	st.Pages = append(st.Pages, clean)
	return r.save(st)
}

// Remove unregisters a page. The default page cannot be removed. If the
// removed page was active, the active page resets to the default.
//
// Remove only touches the registry; callers must tear down the page's data
// first or its records are orphaned.
func (r *Registry) Remove(name string) error {
	clean := Normalize(name)
	if clean == "" {
		return nil
	}
	if clean == DefaultPage {
		return model.ErrDefaultPage
	}

	st := r.load()
	kept := st.Pages[:0]
	for _, p := range st.Pages {
		if p != clean {
			kept = append(kept, p)
		}
	}
	st.Pages = kept
	if st.Active == clean {
		st.Active = DefaultPage
	}
	return r.save(st)
}

// CanDelete reports whether a page may be deleted. Only the default page is
// protected.
func (r *Registry) CanDelete(name string) bool {
	return Normalize(name) != DefaultPage
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
