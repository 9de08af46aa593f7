package models

import (
	"errors"
	"fmt"
)

// FormatError indicates the declared tabular format is not supported.
// Fatal for the whole document.
type FormatError struct {
	Format string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported tabular format %q", e.Format)
}

// ParseError indicates the file content could not be parsed as the declared
// format. Fatal for the whole document.
type ParseError struct {
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s content: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError indicates a single row or match record violated storage
// constraints. Fatal for that row only, never for the batch.
type ValidationError struct {
	Row int // zero-based row index within the document, -1 when unknown
	Err error
}

func (e *ValidationError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("row %d failed validation: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("record failed validation: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// PrerequisiteError indicates a pipeline stage is missing required upstream
// data (no watchlist entities, no investors). Fatal for the document; the
// report status is left untouched.
type PrerequisiteError struct {
	DocumentID string
	Missing    string
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("document %s: missing prerequisite: %s", e.DocumentID, e.Missing)
}

// IsRowFailure reports whether err aborts a single row rather than the batch.
func IsRowFailure(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
