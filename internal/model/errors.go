// Package model provides core data types for pagekeep.
package model

import "errors"

// Error types for pagekeep operations. Lookups for missing records
// resolve to nil rather than returning an error, so only conditions a
// caller must branch on get a sentinel.
var (
	ErrDefaultPage = errors.New("the main page cannot be deleted")
	ErrInvalidKind = errors.New("unknown note kind")
)
