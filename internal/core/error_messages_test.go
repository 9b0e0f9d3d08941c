package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "missing field maps correctly",
			err:         &MissingFieldError{Field: FieldCity},
			wantCode:    "FIELD001",
			wantMessage: "Missing required column: city",
		},
		{
			name:        "wrapped missing field maps correctly",
			err:         fmt.Errorf("import csv: %w", &MissingFieldError{Field: FieldZone}),
			wantCode:    "FIELD001",
			wantMessage: "Missing required column: zone",
		},
		{
			name:        "source unavailable maps correctly",
			err:         &SourceUnavailableError{Source: "sheet", Err: errors.New("status 404")},
			wantCode:    "SRC001",
			wantMessage: "The spreadsheet could not be downloaded",
		},
		{
			name:        "bad sheet url maps correctly",
			err:         ErrInvalidSource,
			wantCode:    "SRC002",
			wantMessage: "The link is not a spreadsheet link",
		},
		{
			name:        "file too large maps correctly",
			err:         fmt.Errorf("%w: limit is 10MB", ErrFileTooLarge),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum size limit",
		},
		{
			name:        "empty file maps correctly",
			err:         ErrEmptyFile,
			wantCode:    "FILE005",
			wantMessage: "The uploaded file is empty",
		},
		{
			name:        "bad request maps correctly",
			err:         fmt.Errorf("%w: offset_x %q", ErrBadRequest, "abc"),
			wantCode:    "REQ001",
			wantMessage: "The request contains invalid values",
		},
		{
			name:        "busy maps correctly",
			err:         ErrBusy,
			wantCode:    "BUSY001",
			wantMessage: "System is busy processing other requests",
		},
		{
			name:        "deadline wins over generic timeout",
			err:         fmt.Errorf("fetch (timeout): %w", context.DeadlineExceeded),
			wantCode:    "UPL005",
			wantMessage: "Request timed out",
		},
		{
			name:        "rate limit maps correctly",
			err:         errors.New("rate limit exceeded"),
			wantCode:    "RATE001",
			wantMessage: "Too many requests",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("INVALID CSV: bare quote"),
			wantCode:    "FILE002",
			wantMessage: "File is not a valid CSV",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestMapError_MissingFieldAction(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantAction string
	}{
		{
			name:       "no close column",
			err:        &MissingFieldError{Field: FieldCity},
			wantAction: "Rename the column to one of the accepted names (e.g. nombre, direccion, cp, ciudad, zona, producto)",
		},
		{
			name:       "close column named",
			err:        fmt.Errorf("import csv: %w", &MissingFieldError{Field: FieldCity, Suggestion: "Cuidad"}),
			wantAction: `Column "Cuidad" looks close; rename it to one of the accepted names for city`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Action != tt.wantAction {
				t.Errorf("MapError() action = %q, want %q", got.Action, tt.wantAction)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	result := FormatUserError(ErrEmptyFile)

	expected := "The uploaded file is empty (Code: FILE005). Please upload a CSV file with data rows"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  ErrNoFile,
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := &MissingFieldError{Field: FieldAddress}
		userErr := NewUserError(techErr)

		if userErr.Error() != "Missing required column: address" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}

		var mfe *MissingFieldError
		if !errors.As(userErr, &mfe) || mfe.Field != FieldAddress {
			t.Error("Unwrap() should expose the original error")
		}
	})
}

func TestSourceUnavailableErrorUnwrap(t *testing.T) {
	err := &SourceUnavailableError{Source: "https://example.test", Err: context.Canceled}
	if !errors.Is(err, context.Canceled) {
		t.Error("errors.Is should see the wrapped cause")
	}
}
