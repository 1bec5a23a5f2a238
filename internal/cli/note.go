// Package cli provides the command-line interface for pagekeep.
package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/pagekeep/internal/model"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage notes, to-dos and account entries",
	Long: `Manage the typed notes on a page.

Notes come in four kinds: notes (free text), todo (task items with a
priority and due date), accounts (credential entries) and files
(file-related annotations).

Examples:
  pagekeep note save "Shopping list" --body "milk, eggs"
  pagekeep note save "Ship release" --kind todo --priority high --due 2026-09-15
  pagekeep note save "Bank" --kind accounts --username alice --password s3cret
  pagekeep note list --kind todo
  pagekeep note rm 7`,
}

var noteSaveCmd = &cobra.Command{
	Use:   "save [title]",
	Short: "Create or update a note",
	Long: `Create a note, or update one with --id.

On update, only the flags you pass change; everything else is kept,
including the original creation time.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNoteSave,
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes of a kind on the current page",
	Args:  cobra.NoArgs,
	RunE:  runNoteList,
}

var noteRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNoteRm,
}

var (
	noteID       int64
	noteKind     string
	noteBody     string
	noteUsername string
	notePassword string
	noteInfo     string
	notePriority string
	noteDue      string
	noteDone     bool
	noteListKind string
)

func init() {
	noteSaveCmd.Flags().Int64Var(&noteID, "id", 0, "Update an existing note")
	noteSaveCmd.Flags().StringVar(&noteKind, "kind", string(model.KindNotes), "Note kind: notes, todo, accounts, files")
	noteSaveCmd.Flags().StringVar(&noteBody, "body", "", "Note text (notes and files kinds)")
	noteSaveCmd.Flags().StringVar(&noteUsername, "username", "", "Account username (accounts kind)")
	noteSaveCmd.Flags().StringVar(&notePassword, "password", "", "Account password (accounts kind)")
	noteSaveCmd.Flags().StringVar(&noteInfo, "info", "", "Extra detail (accounts and todo kinds)")
	noteSaveCmd.Flags().StringVar(&notePriority, "priority", "", "To-do priority: high, normal, can-wait")
	noteSaveCmd.Flags().StringVar(&noteDue, "due", "", "To-do due date (YYYY-MM-DD)")
	noteSaveCmd.Flags().BoolVar(&noteDone, "done", false, "Mark the to-do as done")

	noteListCmd.Flags().StringVar(&noteListKind, "kind", string(model.KindNotes), "Note kind to list")

	noteCmd.AddCommand(noteSaveCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteRmCmd)
	rootCmd.AddCommand(noteCmd)
}

// parseKind maps user input to a note kind, accepting "todo" for the
// stored "to-do" spelling.
func parseKind(s string) (model.Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(model.KindNotes):
		return model.KindNotes, true
	case "todo", string(model.KindToDo):
		return model.KindToDo, true
	case string(model.KindAccounts):
		return model.KindAccounts, true
	case string(model.KindFiles):
		return model.KindFiles, true
	}
	return "", false
}

func runNoteSave(cmd *cobra.Command, args []string) error {
	kind, ok := parseKind(noteKind)
	if !ok {
		ExitValidationError(fmt.Sprintf("invalid kind '%s'", noteKind),
			map[string]interface{}{"kind": noteKind})
		return nil
	}

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

	n := &model.Note{Kind: kind}
	if noteID > 0 {
		existing, err := e.store.GetNote(noteID)
		if err != nil {
			return fmt.Errorf("failed to look up note: %w", err)
		}
		if existing == nil {
			ExitNoteNotFound(noteID)
			return nil
		}
		n = existing
	}

	if len(args) == 1 {
		n.Title = args[0]
	}
	if n.Title == "" {
		ExitValidationError("a title is required", nil)
		return nil
	}

	if err := applyBodyFlags(cmd, n); err != nil {
		ExitValidationError(err.Error(), nil)
		return nil
	}

	id, err := e.store.SaveNote(n, target)
	if err != nil {
		return fmt.Errorf("failed to save note: %w", err)
	}

	saved, err := e.store.GetNote(id)
	if err != nil {
		return fmt.Errorf("failed to reload note: %w", err)
	}

	if GetJSONOutput() {
		data, err := json.MarshalIndent(saved, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	} else if !IsQuiet() {
		fmt.Printf("Saved note %d (%s)\n", id, saved.Title)
	}
	return nil
}

// applyBodyFlags fills the note body from the kind-specific flags. On
// update, flags that were not passed keep their stored values.
func applyBodyFlags(cmd *cobra.Command, n *model.Note) error {
	switch n.Kind {
	case model.KindAccounts:
		body := model.DecodeAccountBody(n.Body)
		if cmd.Flags().Changed("username") {
			body.Username = noteUsername
		}
		if cmd.Flags().Changed("password") {
			body.Password = notePassword
		}
		if cmd.Flags().Changed("info") {
			body.Info = noteInfo
		}
		encoded, err := model.EncodeBody(body)
		if err != nil {
			return err
		}
		n.Body = encoded

	case model.KindToDo:
		body := model.NewToDoBody()
		if n.Body != "" {
			body = model.DecodeToDoBody(n.Body)
		}
		body.Title = n.Title
		if cmd.Flags().Changed("priority") {
			switch notePriority {
			case model.PriorityHigh, model.PriorityNormal, model.PriorityCanWait:
				body.Priority = notePriority
			default:
				return fmt.Errorf("invalid priority '%s'", notePriority)
			}
		}
		if cmd.Flags().Changed("due") {
			body.Due = noteDue
		}
		if cmd.Flags().Changed("info") {
			body.Info = noteInfo
		}
		if cmd.Flags().Changed("done") {
			body.Done = noteDone
		}
		encoded, err := model.EncodeBody(body)
		if err != nil {
			return err
		}
		n.Body = encoded

	default:
		if cmd.Flags().Changed("body") {
			n.Body = noteBody
		}
	}
	return nil
}

func runNoteList(cmd *cobra.Command, args []string) error {
	kind, ok := parseKind(noteListKind)
	if !ok {
		ExitValidationError(fmt.Sprintf("invalid kind '%s'", noteListKind),
			map[string]interface{}{"kind": noteListKind})
		return nil
	}

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

	notes, err := e.store.ListNotesByKind(kind, target)
	if err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}

	if GetJSONOutput() {
		output := map[string]interface{}{
			"page":  target,
			"kind":  kind,
			"count": len(notes),
			"notes": notes,
		}
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(notes) == 0 {
		if !IsQuiet() {
			label := string(kind) + " notes"
			if kind == model.KindNotes {
				label = "notes"
			}
			fmt.Printf("No %s on page %s\n", label, target)
		}
		return nil
	}

	switch kind {
	case model.KindToDo:
		fmt.Println("| ID | Title | Priority | Due | Done |")
		fmt.Println("|----|-------|----------|-----|------|")
		for _, n := range notes {
			body := model.DecodeToDoBody(n.Body)
			done := " "
			if body.Done {
				done = "x"
			}
			fmt.Printf("| %d | %s | %s | %s | %s |\n", n.ID, n.Title, body.Priority, body.Due, done)
		}
	case model.KindAccounts:
		fmt.Println("| ID | Title | Username |")
		fmt.Println("|----|-------|----------|")
		for _, n := range notes {
			body := model.DecodeAccountBody(n.Body)
			fmt.Printf("| %d | %s | %s |\n", n.ID, n.Title, body.Username)
		}
	default:
		fmt.Println("| ID | Title | Updated |")
		fmt.Println("|----|-------|---------|")
		for _, n := range notes {
			fmt.Printf("| %d | %s | %s |\n", n.ID, n.Title, n.UpdatedAt.Format("2006-01-02 15:04"))
		}
	}
	return nil
}

func runNoteRm(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		ExitValidationError(fmt.Sprintf("invalid note id '%s'", args[0]), nil)
		return nil
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	n, err := e.store.GetNote(id)
	if err != nil {
		return fmt.Errorf("failed to look up note: %w", err)
	}
	if n == nil {
		ExitNoteNotFound(id)
		return nil
	}

	if err := e.store.DeleteNote(id); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if GetJSONOutput() {
		output := map[string]interface{}{
			"deleted": true,
			"note":    n,
		}
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	} else if !IsQuiet() {
		fmt.Printf("Deleted note %d (%s)\n", n.ID, n.Title)
	}
	return nil
}
