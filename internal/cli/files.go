// Package cli provides the command-line interface for pagekeep.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/pagekeep/internal/filetype"
	"github.com/user/pagekeep/internal/model"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List files on the current page",
	Long: `List all files stored on the current page.

Shows id, name, type, size and where the content lives. Use --all to
list files across every page, or --group to group them by category.

Examples:
  pagekeep files
  pagekeep files --page work
  pagekeep files --all --json`,
	Args: cobra.NoArgs,
	RunE: runFiles,
}

var (
	filesAll   bool
	filesGroup bool
)

func init() {
	filesCmd.Flags().BoolVar(&filesAll, "all", false, "List files across all pages")
	filesCmd.Flags().BoolVar(&filesGroup, "group", false, "Group files by category")
	rootCmd.AddCommand(filesCmd)
}

func runFiles(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	var files []*model.File
	target := ""
	if filesAll {
		files, err = e.store.Records().ListAllFiles()
		if err != nil {
			return fmt.Errorf("failed to list files: %w", err)
		}
	} else {
		target, err = e.targetPage()
		if err != nil {
			ExitPageNotFound(target)
			return nil
		}
		files, err = e.store.ListFiles(target)
		if err != nil {
			return fmt.Errorf("failed to list files: %w", err)
		}
	}

	if GetJSONOutput() {
		output := map[string]interface{}{
			"count": len(files),
			"files": files,
		}
		if !filesAll {
			output["page"] = target
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
			if filesAll {
				fmt.Println("No files stored")
			} else {
				fmt.Printf("No files on page %s\n", target)
			}
		}
		return nil
	}

	if filesGroup {
		printGrouped(files)
		return nil
	}

	printFileTable(files, filesAll)
	return nil
}

func printFileTable(files []*model.File, withPage bool) {
	if withPage {
		fmt.Println("| ID | Name | Type | Size | Storage | Page |")
		fmt.Println("|----|------|------|------|---------|------|")
		for _, f := range files {
			fmt.Printf("| %d | %s | %s | %s | %s | %s |\n",
				f.ID, f.Name, filetype.Label(f.Type, f.Name), formatSize(f.Size), f.Storage, f.Page)
		}
		return
	}
	fmt.Println("| ID | Name | Type | Size | Storage |")
	fmt.Println("|----|------|------|------|---------|")
	for _, f := range files {
		fmt.Printf("| %d | %s | %s | %s | %s |\n",
			f.ID, f.Name, filetype.Label(f.Type, f.Name), formatSize(f.Size), f.Storage)
	}
}

// printGrouped prints files bucketed by category, keeping the category
// order stable.
func printGrouped(files []*model.File) {
	groups := make(map[filetype.GroupKey][]*model.File)
	for _, f := range files {
		g := filetype.Group(f.Type)
		groups[g] = append(groups[g], f)
	}

	order := []filetype.GroupKey{
		filetype.GroupPDF,
		filetype.GroupImage,
		filetype.GroupText,
		filetype.GroupWord,
		filetype.GroupRTF,
		filetype.GroupOther,
	}
	for _, g := range order {
		bucket := groups[g]
		if len(bucket) == 0 {
			continue
		}
		fmt.Printf("# %s\n", filetype.GroupLabel(g))
		for _, f := range bucket {
			fmt.Printf("  %d  %s (%s)\n", f.ID, f.Name, formatSize(f.Size))
		}
		fmt.Println()
	}
}

// formatSize formats a file size in human-readable format.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
