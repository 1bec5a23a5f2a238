// Package cli provides the command-line interface for pagekeep.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Retrieve a stored file",
	Long: `Retrieve a stored file's content by id.

By default the content is written to the original file name in the
current directory. Use --output to choose a different path, or
--output - to write to stdout.

Examples:
  pagekeep get 3
  pagekeep get 3 --output /tmp/invoice.pdf
  pagekeep get 3 --output -`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var getOutput string

func init() {
	getCmd.Flags().StringVarP(&getOutput, "output", "o", "", "Destination path ('-' for stdout)")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
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

	data, err := e.store.GetBlob(id)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}
	if data == nil {
		// Metadata exists but the content is gone. Doctor can clean this up.
		if GetJSONOutput() {
			output := map[string]interface{}{
				"file":    f,
				"content": false,
			}
			out, _ := json.MarshalIndent(output, "", "  ")
			fmt.Println(string(out))
		} else {
			fmt.Fprintf(os.Stderr, "Error: content for file %d (%s) is missing\n", id, f.Name)
		}
		Exit(1)
		return nil
	}

	dest := getOutput
	if dest == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dest == "" {
		dest = f.Name
	}

	if err := os.WriteFile(dest, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	if GetJSONOutput() {
		output := map[string]interface{}{
			"file": f,
			"path": dest,
		}
		out, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(out))
	} else if !IsQuiet() {
		fmt.Printf("Wrote %s (%s)\n", dest, formatSize(int64(len(data))))
	}
	return nil
}
