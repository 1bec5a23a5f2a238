package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestGetCommand tests the get command
func TestGetCommand(t *testing.T) {
	t.Run("retrieve file content to a path", func(t *testing.T) {
		tempDir, cleanup := setupTestEnv(t)
		defer cleanup()

		addTestFile(t, tempDir, "notes.txt", "the payload")

		dest := filepath.Join(tempDir, "out.txt")
		rootCmd.SetArgs([]string{"get", "1", "--output", dest})
		if err := rootCmd.Execute(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if ExitCode != 0 {
			t.Errorf("expected exit code 0, got %d", ExitCode)
		}
		data, err := os.ReadFile(dest)
		if err != nil {
			t.Fatalf("expected output file to exist: %v", err)
		}
		if string(data) != "the payload" {
			t.Errorf("expected 'the payload', got %q", string(data))
		}
	})

	t.Run("retrieve to stdout", func(t *testing.T) {
		tempDir, cleanup := setupTestEnv(t)
		defer cleanup()

		addTestFile(t, tempDir, "notes.txt", "stream me")

		output := captureStdout(t, func() {
			rootCmd.SetArgs([]string{"get", "1", "--output", "-"})
			rootCmd.Execute()
		})

		if output != "stream me" {
			t.Errorf("expected raw content on stdout, got %q", output)
		}
	})

	t.Run("reject unknown id", func(t *testing.T) {
		_, cleanup := setupTestEnv(t)
		defer cleanup()

		rootCmd.SetArgs([]string{"get", "999"})
		rootCmd.Execute()

		if ExitCode != 1 {
			t.Errorf("expected exit code 1 for unknown file, got %d", ExitCode)
		}
	})

	t.Run("reject non-numeric id", func(t *testing.T) {
		_, cleanup := setupTestEnv(t)
		defer cleanup()

		rootCmd.SetArgs([]string{"get", "abc"})
		rootCmd.Execute()

		if ExitCode != 2 {
			t.Errorf("expected exit code 2 for bad id, got %d", ExitCode)
		}
	})

	t.Run("missing content reports error", func(t *testing.T) {
		tempDir, cleanup := setupTestEnv(t)
		defer cleanup()

		addTestFile(t, tempDir, "notes.txt", "going away")

		// Delete the blob behind the store's back
		if err := os.Remove(filepath.Join(tempDir, "blobs", "1")); err != nil {
			t.Fatalf("failed to remove blob: %v", err)
		}

		rootCmd.SetArgs([]string{"get", "1"})
		rootCmd.Execute()

		if ExitCode != 1 {
			t.Errorf("expected exit code 1 for missing content, got %d", ExitCode)
		}
	})
}

// TestRmCommand tests the rm command
func TestRmCommand(t *testing.T) {
	t.Run("delete a stored file", func(t *testing.T) {
		tempDir, cleanup := setupTestEnv(t)
		defer cleanup()

		addTestFile(t, tempDir, "notes.txt", "bye")

		output := captureStdout(t, func() {
			rootCmd.SetArgs([]string{"rm", "1"})
			if err := rootCmd.Execute(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		if ExitCode != 0 {
			t.Errorf("expected exit code 0, got %d", ExitCode)
		}
		if !strings.Contains(output, "Deleted") {
			t.Errorf("expected deletion message, got: %s", output)
		}

		// The blob should be gone too
		if _, err := os.Stat(filepath.Join(tempDir, "blobs", "1")); !os.IsNotExist(err) {
			t.Error("expected blob file to be removed")
		}
	})

	t.Run("reject unknown id", func(t *testing.T) {
		_, cleanup := setupTestEnv(t)
		defer cleanup()

		rootCmd.SetArgs([]string{"rm", "999"})
		rootCmd.Execute()

		if ExitCode != 1 {
			t.Errorf("expected exit code 1 for unknown file, got %d", ExitCode)
		}
	})
}
