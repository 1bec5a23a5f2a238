// Package cli provides the command-line interface for pagekeep.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/pagekeep/internal/filetype"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search files by name across all pages",
	Long: `Search stored files by name fragment, across every page.

Matching is case-insensitive and results are newest first.

Examples:
  pagekeep search invoice
  pagekeep search report --limit 10 --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var searchLimit int

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum number of results (default from config)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	limit := searchLimit
	if limit <= 0 {
		limit = e.cfg.SearchLimit
	}

	files, err := e.store.SearchFiles(query, limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if GetJSONOutput() {
		output := map[string]interface{}{
			"query": query,
			"count": len(files),
			"files": files,
		}
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(files) == 0 {
		if !IsQuiet() {
			fmt.Printf("No files matching '%s'\n", query)
		}
		return nil
	}

	fmt.Println("| ID | Name | Type | Size | Page |")
	fmt.Println("|----|------|------|------|------|")
	for _, f := range files {
		fmt.Printf("| %d | %s | %s | %s | %s |\n",
			f.ID, f.Name, filetype.Label(f.Type, f.Name), formatSize(f.Size), f.Page)
	}
	return nil
}
