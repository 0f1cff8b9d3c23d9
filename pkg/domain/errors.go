package domain

import (
	"errors"
	"fmt"
)

// ErrNodeNotFound is returned when the current node id does not resolve to any
// node in the conversation flow. This is fatal to the session loop.
var ErrNodeNotFound = errors.New("node not found")

// ErrNotFound is returned when a document path does not exist.
var ErrNotFound = errors.New("file not found")

// ParseError wraps malformed JSON input. Fatal to the load; the shell can
// recover by prompting for a different file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid JSON in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError marks a structurally present but semantically invalid
// document. Reason carries the first violated invariant, human-readable.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid document: " + e.Reason
}
