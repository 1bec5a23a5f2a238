package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestAddCommand tests the add command
func TestAddCommand(t *testing.T) {
	t.Run("add a single file", func(t *testing.T) {
		tempDir, cleanup := setupTestEnv(t)
		defer cleanup()

		testFile := filepath.Join(tempDir, "notes.txt")
		os.WriteFile(testFile, []byte("hello"), 0644)

		output := captureStdout(t, func() {
			rootCmd.SetArgs([]string{"add", testFile})
			if err := rootCmd.Execute(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		if ExitCode != 0 {
			t.Errorf("expected exit code 0, got %d", ExitCode)
		}
		if !strings.Contains(output, "1 saved") {
			t.Errorf("expected output to contain '1 saved', got: %s", output)
		}
	})

	t.Run("skip disallowed extension", func(t *testing.T) {
		tempDir, cleanup := setupTestEnv(t)
		defer cleanup()

		good := filepath.Join(tempDir, "photo.png")
		bad := filepath.Join(tempDir, "virus.exe")
		os.WriteFile(good, []byte("fake image"), 0644)
		os.WriteFile(bad, []byte("nope"), 0644)

		output := captureStdout(t, func() {
			rootCmd.SetArgs([]string{"add", good, bad})
			rootCmd.Execute()
		})

		if ExitCode != 0 {
			t.Errorf("expected exit code 0 when some files save, got %d", ExitCode)
		}
		if !strings.Contains(output, "1 saved, 1 skipped") {
			t.Errorf("expected '1 saved, 1 skipped', got: %s", output)
		}
	})

	t.Run("all files skipped exits nonzero", func(t *testing.T) {
		tempDir, cleanup := setupTestEnv(t)
		defer cleanup()

		bad := filepath.Join(tempDir, "virus.exe")
		os.WriteFile(bad, []byte("nope"), 0644)

		rootCmd.SetArgs([]string{"add", bad})
		rootCmd.Execute()

		if ExitCode != 2 {
			t.Errorf("expected exit code 2 when nothing saves, got %d", ExitCode)
		}
	})

	t.Run("missing input file is skipped", func(t *testing.T) {
		tempDir, cleanup := setupTestEnv(t)
		defer cleanup()

		rootCmd.SetArgs([]string{"add", filepath.Join(tempDir, "nope.txt")})
		rootCmd.Execute()

		if ExitCode != 2 {
			t.Errorf("expected exit code 2, got %d", ExitCode)
		}
	})

	t.Run("add with --json output", func(t *testing.T) {
		tempDir, cleanup := setupTestEnv(t)
		defer cleanup()

		testFile := filepath.Join(tempDir, "report.pdf")
		os.WriteFile(testFile, []byte("%PDF-1.4"), 0644)

		output := captureStdout(t, func() {
			rootCmd.SetArgs([]string{"add", testFile, "--json"})
			rootCmd.Execute()
		})

		var jsonOutput map[string]interface{}
		if err := json.Unmarshal([]byte(output), &jsonOutput); err != nil {
			t.Fatalf("expected valid JSON, got error: %v\nOutput: %s", err, output)
		}
		if jsonOutput["page"] != "main" {
			t.Errorf("expected page 'main', got %v", jsonOutput["page"])
		}
		if jsonOutput["saved"].(float64) != 1 {
			t.Errorf("expected saved 1, got %v", jsonOutput["saved"])
		}

		files, ok := jsonOutput["files"].([]interface{})
		if !ok || len(files) != 1 {
			t.Fatalf("expected files array with 1 element, got %v", jsonOutput["files"])
		}
		file := files[0].(map[string]interface{})
		if file["name"] != "report.pdf" {
			t.Errorf("expected name 'report.pdf', got %v", file["name"])
		}
		if file["type"] != "application/pdf" {
			t.Errorf("expected type 'application/pdf', got %v", file["type"])
		}
	})

	t.Run("add to unknown page fails", func(t *testing.T) {
		tempDir, cleanup := setupTestEnv(t)
		defer cleanup()

		testFile := filepath.Join(tempDir, "notes.txt")
		os.WriteFile(testFile, []byte("hello"), 0644)

		rootCmd.SetArgs([]string{"add", testFile, "--page", "ghost"})
		rootCmd.Execute()

		if ExitCode != 1 {
			t.Errorf("expected exit code 1 for unknown page, got %d", ExitCode)
		}
	})
}
