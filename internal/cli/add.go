// Package cli provides the command-line interface for pagekeep.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/user/pagekeep/internal/filetype"
	"github.com/user/pagekeep/internal/model"
)

var addCmd = &cobra.Command{
	Use:   "add <file>...",
	Short: "Add files to the current page",
	Long: `Add one or more files to the current page.

Each file is validated before it is stored: only known document and
image extensions are accepted, and files over ` + fmt.Sprint(filetype.MaxFileSizeMB) + ` MB are rejected.
Files that fail validation are skipped; the rest are still saved.

Examples:
  pagekeep add invoice.pdf
  pagekeep add photo.png notes.txt --page work
  pagekeep add report.docx --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var addType string

func init() {
	addCmd.Flags().StringVar(&addType, "type", "", "Override the detected MIME type")
	rootCmd.AddCommand(addCmd)
}

// skippedFile records why an input file was not stored.
type skippedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

func runAdd(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	target, err := e.targetPage()
	if err != nil {
		ExitPageNotFound(target)
		return nil
	}

	var saved []*model.File
	var skipped []skippedFile

	for _, path := range args {
		name := filepath.Base(path)

		info, err := os.Stat(path)
		if err != nil {
			skipped = append(skipped, skippedFile{Name: name, Reason: "cannot read file"})
			continue
		}
		if info.IsDir() {
			skipped = append(skipped, skippedFile{Name: name, Reason: "is a directory"})
			continue
		}

		if err := filetype.Validate(name, info.Size()); err != nil {
			skipped = append(skipped, skippedFile{Name: name, Reason: err.Error()})
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			skipped = append(skipped, skippedFile{Name: name, Reason: "cannot read file"})
			continue
		}

		f, err := e.store.AddFile(target, name, addType, info.ModTime().UnixMilli(), data)
		if err != nil {
			return fmt.Errorf("failed to store %s: %w", name, err)
		}
		saved = append(saved, f)
	}

	if GetJSONOutput() {
		output := map[string]interface{}{
			"page":    target,
			"saved":   len(saved),
			"skipped": len(skipped),
			"files":   saved,
		}
		if len(skipped) > 0 {
			output["skipped_files"] = skipped
		}
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	} else {
		for _, s := range skipped {
			fmt.Fprintf(os.Stderr, "Skipped %s: %s\n", s.Name, s.Reason)
		}
		if !IsQuiet() {
			summary := fmt.Sprintf("%d saved", len(saved))
			if len(skipped) > 0 {
				summary += fmt.Sprintf(", %d skipped", len(skipped))
			}
			fmt.Println(summary)
		}
	}

	if len(saved) == 0 && len(skipped) > 0 {
		Exit(2)
	}
	return nil
}
