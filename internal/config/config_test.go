package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		tmpDir := t.TempDir()

		cfg, err := Load(tmpDir)
		require.NoError(t, err)

		assert.Equal(t, tmpDir, cfg.DataDir)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 50, cfg.SearchLimit)
		assert.False(t, cfg.DisableBlobDir)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		content := "log_level: debug\nsearch_limit: 10\ndisable_blob_dir: true\n"
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte(content), 0644))

		cfg, err := Load(tmpDir)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 10, cfg.SearchLimit)
		assert.True(t, cfg.DisableBlobDir)
	})

	t.Run("file cannot relocate data dir", func(t *testing.T) {
		tmpDir := t.TempDir()
		content := "data_dir: /somewhere/else\n"
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte(content), 0644))

		cfg, err := Load(tmpDir)
		require.NoError(t, err)
		assert.Equal(t, tmpDir, cfg.DataDir)
	})

	t.Run("invalid yaml is an error", func(t *testing.T) {
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte("log_level: [broken"), 0644))

		_, err := Load(tmpDir)
		assert.Error(t, err)
	})

	t.Run("invalid log level is an error", func(t *testing.T) {
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, FileName), []byte("log_level: loud\n"), 0644))

		_, err := Load(tmpDir)
		assert.ErrorContains(t, err, "invalid log level")
	})
}

func TestSave(t *testing.T) {
	t.Run("round trips through the file", func(t *testing.T) {
		tmpDir := t.TempDir()
		cfg := Default()
		cfg.DataDir = filepath.Join(tmpDir, "nested", "data")
		cfg.LogLevel = "warn"
		cfg.SearchLimit = 25

		require.NoError(t, cfg.Save())

		loaded, err := Load(cfg.DataDir)
		require.NoError(t, err)
		assert.Equal(t, "warn", loaded.LogLevel)
		assert.Equal(t, 25, loaded.SearchLimit)
	})
}

func TestDefaultDataDir(t *testing.T) {
	t.Run("environment override wins", func(t *testing.T) {
		t.Setenv(EnvDataDir, "/tmp/pagekeep-test")
		assert.Equal(t, "/tmp/pagekeep-test", DefaultDataDir())
	})

	t.Run("falls back to home directory", func(t *testing.T) {
		t.Setenv(EnvDataDir, "")
		dir := DefaultDataDir()
		assert.Contains(t, dir, DefaultDirName)
	})
}
