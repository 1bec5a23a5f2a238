package cli

import (
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/user/pagekeep/internal/config"
	"github.com/user/pagekeep/internal/model"
)

// resetFlags resets global command flags for test isolation
func resetFlags() {
	// Reset add command flags
	addType = ""
	// Reset files command flags
	filesAll = false
	filesGroup = false
	// Reset get command flags
	getOutput = ""
	// Reset search command flags
	searchLimit = 0
	// Reset note command flags
	noteID = 0
	noteKind = string(model.KindNotes)
	noteBody = ""
	noteUsername = ""
	notePassword = ""
	noteInfo = ""
	notePriority = ""
	noteDue = ""
	noteDone = false
	noteListKind = string(model.KindNotes)
	// Reset page command flags
	pageRmForce = false
	// Reset doctor command flags
	doctorFix = false
	doctorWatch = false
	// Reset global flags
	jsonOutput = false
	pageName = ""
	dataDir = ""
	quiet = false
	verbose = false
	// Clear cobra's changed markers so merge logic sees a fresh parse
	clearChanged(rootCmd)
}

func clearChanged(cmd *cobra.Command) {
	markUnchanged := func(f *pflag.Flag) { f.Changed = false }
	cmd.Flags().VisitAll(markUnchanged)
	cmd.PersistentFlags().VisitAll(markUnchanged)
	for _, sub := range cmd.Commands() {
		clearChanged(sub)
	}
}

// setupTestEnv points the data directory at a temp dir and captures exit
// codes instead of exiting
func setupTestEnv(t *testing.T) (tempDir string, cleanup func()) {
	t.Helper()
	tempDir = t.TempDir()
	t.Setenv(config.EnvDataDir, tempDir)
	resetFlags()

	// Mock the exit function to capture exit code instead of exiting
	origExitFunc := ExitFunc
	ExitFunc = func(code int) {
		ExitCode = code
		// Don't actually exit in tests
	}
	ExitCode = 0

	cleanup = func() {
		resetFlags()
		ExitFunc = origExitFunc
		ExitCode = 0
	}
	return tempDir, cleanup
}

// captureStdout runs fn and returns what it printed to stdout
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = oldStdout

	buf := make([]byte, 65536)
	n, _ := r.Read(buf)
	return string(buf[:n])
}
