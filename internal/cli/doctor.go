// Package cli provides the command-line interface for pagekeep.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/user/pagekeep/internal/daemon"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check storage health and report issues",
	Long: `Check storage health and report any issues found.

The doctor command looks for file records whose on-disk content has
gone missing, for example because something deleted blobs out of the
data directory.

Flags:
  --fix     Remove records whose content is gone
  --watch   Keep running and re-check whenever the blob directory changes
  --json    Output results in JSON format`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

var (
	doctorFix   bool
	doctorWatch bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Remove records whose content is gone")
	doctorCmd.Flags().BoolVar(&doctorWatch, "watch", false, "Re-check on blob directory changes")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOutput represents the JSON output for the doctor command
type DoctorOutput struct {
	Healthy bool    `json:"healthy"`
	Missing []int64 `json:"missing"`
	Fixed   int     `json:"fixed"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if doctorWatch {
		return watchBlobs(e)
	}

	out, err := checkBlobs(e)
	if err != nil {
		return err
	}

	if GetJSONOutput() {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	} else if out.Healthy {
		if !IsQuiet() {
			fmt.Println("All file content accounted for")
		}
	} else {
		fmt.Printf("%d file(s) have missing content:\n", len(out.Missing))
		for _, id := range out.Missing {
			f, err := e.store.GetFile(id)
			if err != nil || f == nil {
				fmt.Printf("  %d\n", id)
				continue
			}
			fmt.Printf("  %d  %s (page %s)\n", id, f.Name, f.Page)
		}
		if out.Fixed > 0 {
			fmt.Printf("Removed %d stale record(s)\n", out.Fixed)
		} else {
			fmt.Println("Run with --fix to remove the stale records")
		}
	}

	if !out.Healthy && out.Fixed == 0 {
		Exit(1)
	}
	return nil
}

// checkBlobs finds records with missing content and optionally removes
// them.
func checkBlobs(e *env) (*DoctorOutput, error) {
	missing, err := e.store.ReconcileBlobs()
	if err != nil {
		return nil, fmt.Errorf("failed to check blobs: %w", err)
	}

	out := &DoctorOutput{
		Healthy: len(missing) == 0,
		Missing: missing,
	}
	if out.Missing == nil {
		out.Missing = []int64{}
	}

	if doctorFix {
		for _, id := range missing {
			if err := e.store.DeleteFile(id); err != nil {
				slog.Warn("failed to remove stale record", "id", id, "error", err)
				continue
			}
			out.Fixed++
		}
	}
	return out, nil
}

// watchBlobs runs until interrupted, re-checking whenever the blob
// directory changes.
func watchBlobs(e *env) error {
	logFn := func(format string, args ...interface{}) {
		slog.Debug(fmt.Sprintf(format, args...))
	}
	reconcileFn := func() error {
		out, err := checkBlobs(e)
		if err != nil {
			return err
		}
		if !out.Healthy {
			slog.Warn("file content missing", "count", len(out.Missing), "fixed", out.Fixed)
		}
		return nil
	}

	watcher, err := daemon.NewWatcher(e.store.BlobDir(), reconcileFn, logFn)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if !IsQuiet() {
		fmt.Printf("Watching %s (%d blobs), press Ctrl+C to stop\n",
			e.store.BlobDir(), watcher.BlobCount())
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	return nil
}
