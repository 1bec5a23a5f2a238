// Package cli provides the command-line interface for pagekeep.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/user/pagekeep/internal/config"
	"github.com/user/pagekeep/internal/page"
	"github.com/user/pagekeep/internal/storage"
)

// Global flags
var (
	jsonOutput bool
	pageName   string
	dataDir    string
	quiet      bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pagekeep",
	Short: "A local keeper for notes, to-dos, accounts and files",
	Long: `Pagekeep is a lightweight, single-binary tool that keeps notes,
to-do lists, account entries and file attachments on your own disk.

Features:
  - Pages: independent workspaces with their own notes and files
  - Dual storage: file content on disk with a database fallback
  - Typed notes: plain notes, to-dos, account entries
  - Global search: find files by name across every page
  - Agent-friendly: JSON output for every command`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent parsing)")
	rootCmd.PersistentFlags().StringVar(&pageName, "page", "", "Target a specific page (default: active page)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", "", "Data directory (default: $PAGEKEEP_DIR or ~/.pagekeep)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug output")
}

// ExitCode is used to communicate exit codes for testing
var ExitCode int

// ExitFunc is the function called to exit the program
// Can be overridden for testing
var ExitFunc = os.Exit

// Exit sets the exit code and calls the exit function
func Exit(code int) {
	ExitCode = code
	ExitFunc(code)
}

// GetJSONOutput returns whether JSON output is enabled
func GetJSONOutput() bool {
	return jsonOutput
}

// IsQuiet returns whether quiet mode is enabled
func IsQuiet() bool {
	return quiet
}

// IsVerbose returns whether verbose mode is enabled
func IsVerbose() bool {
	return verbose
}

// env bundles the opened store and page registry for a single command run.
type env struct {
	cfg   config.Config
	store *storage.Store
	pages *page.Registry
}

// openEnv loads the configuration, sets up logging and opens the store.
// Every command goes through here.
func openEnv() (*env, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}

	setupLogging(cfg.LogLevel)

	var opts []storage.Option
	if cfg.DisableBlobDir {
		opts = append(opts, storage.WithoutDirBlobs())
	}
	store, err := storage.NewStore(cfg.DataDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return &env{
		cfg:   cfg,
		store: store,
		pages: page.NewRegistry(cfg.DataDir),
	}, nil
}

func (e *env) Close() {
	e.store.Close()
}

// targetPage resolves the page a command operates on: the --page flag if
// given, otherwise the active page from the registry. The page must be a
// registry member.
func (e *env) targetPage() (string, error) {
	name := page.Normalize(pageName)
	if name == "" {
		name = e.pages.Active()
	}
	names, err := e.pages.List()
	if err != nil {
		return "", err
	}
	for _, n := range names {
		if n == name {
			return name, nil
		}
	}
	return name, fmt.Errorf("page '%s' not found", name)
}

// setupLogging installs the default slog logger. The --verbose and --quiet
// flags override the configured level.
func setupLogging(level string) {
	ll := &slog.LevelVar{}
	switch strings.ToLower(level) {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "warn":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	default:
		ll.Set(slog.LevelInfo)
	}
	if verbose {
		ll.Set(slog.LevelDebug)
	} else if quiet {
		ll.Set(slog.LevelError)
	}

	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)
}
