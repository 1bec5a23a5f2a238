// Package cli provides the command-line interface for pagekeep.
package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a stored file",
	Long: `Delete a stored file and its content.

Removes both the metadata record and the blob, wherever it lives.

Examples:
  pagekeep rm 3
  pagekeep rm 3 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		ExitValidationError(fmt.Sprintf("invalid file id '%s'", args[0]), nil)
		return nil
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	f, err := e.store.GetFile(id)
	if err != nil {
		return fmt.Errorf("failed to look up file: %w", err)
	}
	if f == nil {
		ExitFileNotFound(id)
		return nil
	}

	if err := e.store.DeleteFile(id); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if GetJSONOutput() {
		output := map[string]interface{}{
			"deleted": true,
			"file":    f,
		}
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	} else if !IsQuiet() {
		fmt.Printf("Deleted %s (%d)\n", f.Name, f.ID)
	}
	return nil
}
