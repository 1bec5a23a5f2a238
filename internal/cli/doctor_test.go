package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDoctorCommand tests the doctor command
func TestDoctorCommand(t *testing.T) {
	t.Run("healthy storage reports clean", func(t *testing.T) {
		tempDir, cleanup := setupTestEnv(t)
		defer cleanup()

		addTestFile(t, tempDir, "a.txt", "x")

		output := captureStdout(t, func() {
			rootCmd.SetArgs([]string{"doctor"})
			if err := rootCmd.Execute(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		if ExitCode != 0 {
			t.Errorf("expected exit code 0, got %d", ExitCode)
		}
		if !strings.Contains(output, "accounted for") {
			t.Errorf("expected healthy message, got: %s", output)
		}
	})

	t.Run("reports missing blob content", func(t *testing.T) {
		tempDir, cleanup := setupTestEnv(t)
		defer cleanup()

		addTestFile(t, tempDir, "a.txt", "x")
		if err := os.Remove(filepath.Join(tempDir, "blobs", "1")); err != nil {
			t.Fatalf("failed to remove blob: %v", err)
		}

		output := captureStdout(t, func() {
			rootCmd.SetArgs([]string{"doctor"})
			rootCmd.Execute()
		})

		if ExitCode != 1 {
			t.Errorf("expected exit code 1 for missing content, got %d", ExitCode)
		}
		if !strings.Contains(output, "missing content") {
			t.Errorf("expected missing content report, got: %s", output)
		}
		if !strings.Contains(output, "a.txt") {
			t.Errorf("expected the file name in the report, got: %s", output)
		}
	})

	t.Run("--fix removes stale records", func(t *testing.T) {
		tempDir, cleanup := setupTestEnv(t)
		defer cleanup()

		addTestFile(t, tempDir, "a.txt", "x")
		if err := os.Remove(filepath.Join(tempDir, "blobs", "1")); err != nil {
			t.Fatalf("failed to remove blob: %v", err)
		}

		output := captureStdout(t, func() {
			rootCmd.SetArgs([]string{"doctor", "--fix", "--json"})
			rootCmd.Execute()
		})

		var result DoctorOutput
		if err := json.Unmarshal([]byte(output), &result); err != nil {
			t.Fatalf("expected valid JSON, got: %v\nOutput: %s", err, output)
		}
		if result.Fixed != 1 {
			t.Errorf("expected 1 fixed record, got %d", result.Fixed)
		}

		// A second run is clean
		resetFlags()
		ExitCode = 0
		output = captureStdout(t, func() {
			rootCmd.SetArgs([]string{"doctor", "--json"})
			rootCmd.Execute()
		})
		result = DoctorOutput{}
		if err := json.Unmarshal([]byte(output), &result); err != nil {
			t.Fatalf("expected valid JSON, got: %v\nOutput: %s", err, output)
		}
		if !result.Healthy {
			t.Errorf("expected healthy after fix, got %+v", result)
		}
		if ExitCode != 0 {
			t.Errorf("expected exit code 0 after fix, got %d", ExitCode)
		}
	})

	t.Run("database-stored blobs are not flagged", func(t *testing.T) {
		tempDir, cleanup := setupTestEnv(t)
		defer cleanup()

		// Force content into the database
		content := "disable_blob_dir: true\n"
		if err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		addTestFile(t, tempDir, "a.txt", "x")

		output := captureStdout(t, func() {
			rootCmd.SetArgs([]string{"doctor", "--json"})
			rootCmd.Execute()
		})

		var result DoctorOutput
		if err := json.Unmarshal([]byte(output), &result); err != nil {
			t.Fatalf("expected valid JSON, got: %v\nOutput: %s", err, output)
		}
		if !result.Healthy {
			t.Errorf("expected healthy report, got %+v", result)
		}
	})
}
