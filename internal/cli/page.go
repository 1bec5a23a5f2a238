// Package cli provides the command-line interface for pagekeep.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/user/pagekeep/internal/model"
	"github.com/user/pagekeep/internal/page"
)

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Manage pages",
	Long: `Manage pages, the independent workspaces notes and files live in.

Every installation starts with a page called main, which cannot be
deleted. Deleting any other page removes all its notes and files.

Examples:
  pagekeep page list
  pagekeep page add work
  pagekeep page use work
  pagekeep page rm work --force`,
}

var pageListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pages",
	Args:  cobra.NoArgs,
	RunE:  runPageList,
}

var pageAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a page",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageAdd,
}

var pageUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Switch the active page",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageUse,
}

var pageRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a page and everything on it",
	Args:  cobra.ExactArgs(1),
	RunE:  runPageRm,
}

var pageRmForce bool

func init() {
	pageRmCmd.Flags().BoolVar(&pageRmForce, "force", false, "Delete without confirmation even if the page has content")

	pageCmd.AddCommand(pageListCmd)
	pageCmd.AddCommand(pageAddCmd)
	pageCmd.AddCommand(pageUseCmd)
	pageCmd.AddCommand(pageRmCmd)
	rootCmd.AddCommand(pageCmd)
}

// pageInfo is one row of page list output.
type pageInfo struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
	Files  int    `json:"files"`
	Notes  int    `json:"notes"`
}

func runPageList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	names, err := e.pages.List()
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}
	active := e.pages.Active()

	infos := make([]pageInfo, 0, len(names))
	for _, name := range names {
		counts, err := e.store.CountPage(name)
		if err != nil {
			return fmt.Errorf("failed to count page %s: %w", name, err)
		}
		infos = append(infos, pageInfo{
			Name:   name,
			Active: name == active,
			Files:  counts.Files,
			Notes:  counts.Notes,
		})
	}

	if GetJSONOutput() {
		output := map[string]interface{}{
			"active": active,
			"count":  len(infos),
			"pages":  infos,
		}
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println("| Page | Files | Notes |")
	fmt.Println("|------|-------|-------|")
	for _, info := range infos {
		marker := ""
		if info.Active {
			marker = " *"
		}
		fmt.Printf("| %s%s | %d | %d |\n", info.Name, marker, info.Files, info.Notes)
	}
	return nil
}

func runPageAdd(cmd *cobra.Command, args []string) error {
	name := page.Normalize(args[0])
	if name == "" {
		ExitValidationError("page name cannot be empty", nil)
		return nil
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.pages.Add(name); err != nil {
		return fmt.Errorf("failed to add page: %w", err)
	}

	if GetJSONOutput() {
		fmt.Printf(`{"page":"%s","created":true}`+"\n", name)
	} else if !IsQuiet() {
		fmt.Printf("Created page %s\n", name)
	}
	return nil
}

func runPageUse(cmd *cobra.Command, args []string) error {
	name := page.Normalize(args[0])

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	names, err := e.pages.List()
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}
	found := false
	for _, n := range names {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		ExitPageNotFound(name)
		return nil
	}

	if err := e.pages.SetActive(name); err != nil {
		return fmt.Errorf("failed to switch page: %w", err)
	}

	if GetJSONOutput() {
		fmt.Printf(`{"active":"%s"}`+"\n", name)
	} else if !IsQuiet() {
		fmt.Printf("Now on page %s\n", name)
	}
	return nil
}

func runPageRm(cmd *cobra.Command, args []string) error {
	name := page.Normalize(args[0])

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	if !e.pages.CanDelete(name) {
		ExitDefaultPage()
		return nil
	}

	names, err := e.pages.List()
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}
	found := false
	for _, n := range names {
		if n == name {
			found = true
			break
		}
	}
	if !found {
		ExitPageNotFound(name)
		return nil
	}

	counts, err := e.store.CountPage(name)
	if err != nil {
		return fmt.Errorf("failed to count page: %w", err)
	}
	if (counts.Files > 0 || counts.Notes > 0) && !pageRmForce {
		msg := fmt.Sprintf("page '%s' has %d files and %d notes; use --force to delete them",
			name, counts.Files, counts.Notes)
		ExitWithError(2, ErrCodeValidation, msg, map[string]interface{}{
			"page":  name,
			"files": counts.Files,
			"notes": counts.Notes,
		})
		return nil
	}

	// Content first, registry second. A failure in between leaves the page
	// listed but empty, which is harmless.
	if err := e.store.PurgePage(name); err != nil {
		return fmt.Errorf("failed to purge page: %w", err)
	}
	if err := e.pages.Remove(name); err != nil {
		if errors.Is(err, model.ErrDefaultPage) {
			ExitDefaultPage()
			return nil
		}
		return fmt.Errorf("failed to remove page: %w", err)
	}

	if GetJSONOutput() {
		output := map[string]interface{}{
			"page":    name,
			"deleted": true,
			"files":   counts.Files,
			"notes":   counts.Notes,
		}
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	} else if !IsQuiet() {
		fmt.Printf("Deleted page %s (%d files, %d notes)\n", name, counts.Files, counts.Notes)
	}
	return nil
}
