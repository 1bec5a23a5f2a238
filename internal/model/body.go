package model

import (
	"encoding/json"
	"time"
)

// Priority levels for to-do items.
const (
	PriorityHigh    = "high"
	PriorityNormal  = "normal"
	PriorityCanWait = "can-wait"
)

// AccountBody is the decoded body of a KindAccounts note.
type AccountBody struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Info     string `json:"info"`
}

// ToDoBody is the decoded body of a KindToDo note.
type ToDoBody struct {
	Title    string `json:"title"`
	Priority string `json:"priority"`
	Due      string `json:"due"` // YYYY-MM-DD
	Info     string `json:"info"`
	Done     bool   `json:"done"`
}

// NewToDoBody returns a to-do body with the default priority and today's date.
func NewToDoBody() ToDoBody {
	return ToDoBody{
		Priority: PriorityNormal,
		Due:      time.Now().Format("2006-01-02"),
	}
}

// EncodeBody marshals a kind-specific body value to the note body string.
func EncodeBody(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeAccountBody decodes an accounts note body. Malformed or empty input
// yields empty fields rather than an error.
func DecodeAccountBody(body string) AccountBody {
	var a AccountBody
	if body == "" {
		return a
	}
	if err := json.Unmarshal([]byte(body), &a); err != nil {
		return AccountBody{}
	}
	return a
}

// DecodeToDoBody decodes a to-do note body. Malformed input yields defaults;
// a missing priority becomes "normal" and a missing due date becomes today.
func DecodeToDoBody(body string) ToDoBody {
	var t ToDoBody
	if body != "" {
		if err := json.Unmarshal([]byte(body), &t); err != nil {
			t = ToDoBody{}
		}
	}
	switch t.Priority {
	case PriorityHigh, PriorityNormal, PriorityCanWait:
	default:
		t.Priority = PriorityNormal
	}
	if t.Due == "" {
		t.Due = time.Now().Format("2006-01-02")
	}
	return t
}
