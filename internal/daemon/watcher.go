package daemon

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	// DefaultDebounceInterval is the default interval to wait after the last change before triggering a reconcile.
	DefaultDebounceInterval = 100 * time.Millisecond
)

// ReconcileFunc is called when the blob directory has changed and stored
// file metadata may be stale.
type ReconcileFunc func() error

// LogFunc is called to log messages.
type LogFunc func(format string, args ...interface{})

// Watcher monitors the blob directory for removed or replaced blob files
// and triggers a metadata reconcile.
type Watcher struct {
	blobDir          string
	reconcileFn      ReconcileFunc
	logFn            LogFunc
	debounceInterval time.Duration

	watcher   *fsnotify.Watcher
	stopChan  chan struct{}
	doneChan  chan struct{}
	closeOnce sync.Once

	// debounce state
	mu      sync.Mutex
	pending *time.Timer
}

// NewWatcher creates a new file watcher for the given blob directory.
// reconcileFn is called when blob files change underneath stored metadata.
// logFn is called for logging (can be nil for no logging).
func NewWatcher(blobDir string, reconcileFn ReconcileFunc, logFn LogFunc) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if logFn == nil {
		logFn = func(format string, args ...interface{}) {} // no-op
	}

	return &Watcher{
		blobDir:          blobDir,
		reconcileFn:      reconcileFn,
		logFn:            logFn,
		debounceInterval: DefaultDebounceInterval,
		watcher:          fsWatcher,
		stopChan:         make(chan struct{}),
		doneChan:         make(chan struct{}),
	}, nil
}

// SetDebounceInterval overrides the debounce interval. Must be called
// before Start.
func (w *Watcher) SetDebounceInterval(d time.Duration) {
	w.debounceInterval = d
}

// Start begins watching for blob changes.
func (w *Watcher) Start() error {
	if err := w.addWatchIfExists(w.blobDir); err != nil {
		w.logFn("Warning: could not watch blob directory %s: %v", w.blobDir, err)
	}

	// Start event processing goroutine
	go w.processEvents()

	return nil
}

// Close stops the watcher and cleans up resources.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		close(w.stopChan)
		w.watcher.Close()

		// Cancel any pending debounce timer
		w.mu.Lock()
		if w.pending != nil {
			w.pending.Stop()
			w.pending = nil
		}
		w.mu.Unlock()

		// Wait for event processing to finish
		<-w.doneChan
	})
}

// addWatchIfExists adds a watch for a directory if it exists.
func (w *Watcher) addWatchIfExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil // Directory doesn't exist, no error
	}
	return w.watcher.Add(path)
}

// processEvents handles filesystem events.
func (w *Watcher) processEvents() {
	defer close(w.doneChan)

	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logFn("Watch error: %v", err)
		}
	}
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	filename := filepath.Base(event.Name)
	if !w.isBlobFile(filename) {
		return
	}

	// Blobs are written once and only ever removed afterwards, so write
	// events on existing names also mean something external touched them.
	if !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) {
		return
	}

	w.logFn("Blob change detected: %s (%s)", filename, event.Op)

	w.scheduleReconcile()
}

// isBlobFile returns true if the filename looks like a stored blob.
// Blob files are named after the numeric record id.
func (w *Watcher) isBlobFile(filename string) bool {
	if filename == "" || strings.HasPrefix(filename, ".") {
		return false
	}
	for _, r := range filename {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// scheduleReconcile schedules a debounced reconcile.
func (w *Watcher) scheduleReconcile() {
	w.mu.Lock()
	defer w.mu.Unlock()

	// Cancel any existing timer
	if w.pending != nil {
		w.pending.Stop()
	}

	// Schedule a new reconcile after debounce interval
	w.pending = time.AfterFunc(w.debounceInterval, w.doReconcile)
}

// doReconcile performs the actual reconcile.
func (w *Watcher) doReconcile() {
	w.mu.Lock()
	w.pending = nil
	w.mu.Unlock()

	w.logFn("Reconciling blob metadata")

	if err := w.reconcileFn(); err != nil {
		w.logFn("Error reconciling blob metadata: %v", err)
	} else {
		w.logFn("Blob reconcile complete")
	}
}

// BlobCount returns the number of blob files currently in the watched
// directory.
func (w *Watcher) BlobCount() int {
	entries, err := os.ReadDir(w.blobDir)
	if err != nil {
		return 0
	}

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && w.isBlobFile(entry.Name()) {
			count++
		}
	}
	return count
}
