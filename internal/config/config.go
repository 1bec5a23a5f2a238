// Package config loads pagekeep settings from an optional YAML file in
// the data directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file name inside the data directory.
	FileName = "config.yaml"

	// DefaultDirName is the data directory created under $HOME when no
	// explicit directory is given.
	DefaultDirName = ".pagekeep"

	// EnvDataDir overrides the data directory location.
	EnvDataDir = "PAGEKEEP_DIR"
)

// Config holds the settings pagekeep reads at startup. Every field has a
// usable zero-config default.
type Config struct {
	// DataDir is where the database, blob directory and page registry live.
	DataDir string `yaml:"data_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// DisableBlobDir forces all file content into the database.
	DisableBlobDir bool `yaml:"disable_blob_dir"`

	// SearchLimit caps search results when no explicit limit is given.
	SearchLimit int `yaml:"search_limit"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DataDir:     DefaultDataDir(),
		LogLevel:    "info",
		SearchLimit: 50,
	}
}

// DefaultDataDir resolves the data directory from the environment, falling
// back to ~/.pagekeep. A relative override is used as-is.
func DefaultDataDir() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}

// Load reads config.yaml from dataDir and merges it over the defaults.
// A missing file is not an error. An empty dataDir uses the default
// location.
func Load(dataDir string) (Config, error) {
	cfg := Default()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	path := filepath.Join(cfg.DataDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// The file never relocates the data directory it was read from.
	if overlay.LogLevel != "" {
		cfg.LogLevel = overlay.LogLevel
	}
	if overlay.SearchLimit > 0 {
		cfg.SearchLimit = overlay.SearchLimit
	}
	cfg.DisableBlobDir = overlay.DisableBlobDir

	if err := validateLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to config.yaml in its data directory,
// creating the directory if needed.
func (c Config) Save() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(c.DataDir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func validateLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", level)
}
