package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for input handling. Their text is matched by MapError,
// so keep the wording stable.
var (
	ErrNoFile        = errors.New("no file provided")
	ErrEmptyFile     = errors.New("empty file")
	ErrFileTooLarge  = errors.New("file too large")
	ErrInvalidCSV    = errors.New("invalid csv")
	ErrInvalidSource = errors.New("invalid sheet url")
	ErrBusy          = errors.New("too many concurrent requests")
	ErrBadRequest    = errors.New("invalid request")
)

// MissingFieldError reports a required canonical field for which no column
// could be resolved. It aborts the whole batch. Suggestion, when set, names
// the source column that came closest to one of the field's aliases.
type MissingFieldError struct {
	Field      string
	Suggestion string
}

func (e *MissingFieldError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("missing required field %q (closest column %q)", e.Field, e.Suggestion)
	}
	return fmt.Sprintf("missing required field %q", e.Field)
}

func missingField(field string, aliases []string, idx ColumnIndex) *MissingFieldError {
	err := &MissingFieldError{Field: field}
	if col, ok := ClosestColumn(aliases, idx); ok {
		err.Suggestion = col
	}
	return err
}

// SourceUnavailableError reports that the backing data source could not be
// read. Source names the source (a URL or file path).
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable: %s: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}
