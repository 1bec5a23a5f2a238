// Package cli provides the command-line interface for pagekeep.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
)

// Error codes for structured error responses
const (
	ErrCodeFileNotFound = "FILE_NOT_FOUND"
	ErrCodeNoteNotFound = "NOTE_NOT_FOUND"
	ErrCodePageNotFound = "PAGE_NOT_FOUND"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeDefaultPage  = "DEFAULT_PAGE"
	ErrCodeStorage      = "STORAGE_ERROR"
)

// JSONError represents a structured error response for --json output
type JSONError struct {
	Error   bool                   `json:"error"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ExitWithError outputs an error message and exits.
// If --json flag is set, outputs structured JSON error to stdout.
// Otherwise outputs plain text to stderr.
func ExitWithError(code int, errCode, message string, details map[string]interface{}) {
	if GetJSONOutput() {
		errResp := JSONError{
			Error:   true,
			Code:    errCode,
			Message: message,
			Details: details,
		}
		data, _ := json.Marshal(errResp)
		fmt.Println(string(data))
	} else {
		fmt.Fprintln(os.Stderr, "Error:", message)
	}
	Exit(code)
}

// ExitFileNotFound outputs a file not found error
func ExitFileNotFound(id int64) {
	ExitWithError(1, ErrCodeFileNotFound,
		fmt.Sprintf("file %d not found", id),
		map[string]interface{}{"file_id": id})
}

// ExitNoteNotFound outputs a note not found error
func ExitNoteNotFound(id int64) {
	ExitWithError(1, ErrCodeNoteNotFound,
		fmt.Sprintf("note %d not found", id),
		map[string]interface{}{"note_id": id})
}

// ExitPageNotFound outputs a page not found error
func ExitPageNotFound(name string) {
	ExitWithError(1, ErrCodePageNotFound,
		fmt.Sprintf("page '%s' not found", name),
		map[string]interface{}{"page": name})
}

// ExitValidationError outputs a validation error
func ExitValidationError(message string, details map[string]interface{}) {
	ExitWithError(2, ErrCodeValidation, message, details)
}

// ExitDefaultPage outputs an error for attempting to delete the main page
func ExitDefaultPage() {
	ExitWithError(2, ErrCodeDefaultPage,
		"the main page cannot be deleted",
		map[string]interface{}{"page": "main"})
}
