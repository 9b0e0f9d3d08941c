// Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// # Record Errors (FIELD001-FIELD099)
//
//	FIELD001 - Missing column: names the field that has no column
//	           Action: Rename the column to one of the accepted names,
//	           or the closest existing column when one is near
//	           Patterns: *MissingFieldError, "missing required field"
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Source unavailable: The spreadsheet could not be downloaded
//	         Action: Check that the sheet is shared publicly and try again
//	         Patterns: "source unavailable"
//
//	SRC002 - Invalid sheet URL: The link is not a spreadsheet link
//	         Action: Paste the full sheet URL containing /d/<id>/
//	         Patterns: "invalid sheet url"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large    Patterns: "file too large"
//	FILE002 - Invalid CSV       Patterns: "invalid csv"
//	FILE004 - No file           Patterns: "no file provided"
//	FILE005 - Empty file        Patterns: "empty file"
//
// # Mapping Errors (MAP001-MAP099)
//
//	MAP001 - Invalid mapping: The product mapping could not be parsed
//	         Action: Each product needs a code, and each combo at least one code
//	         Patterns: "invalid mapping"
//
// # Load and Request Errors
//
//	REQ001  - Invalid request     Patterns: "invalid request"
//	BUSY001 - Busy: Too many imports or renders in progress
//	          Patterns: "too many concurrent requests"
//	UPL004  - Request cancelled   Patterns: "context canceled"
//	UPL005  - Request timeout     Patterns: "context deadline exceeded"
//	RATE001 - Rate limited        Patterns: "rate limit"
//
// # Database Errors (DB004-DB006)
//
// Only reachable when the import history is backed by PostgreSQL.
//
//	DB004 - Connection refused   Patterns: "connection refused"
//	DB005 - Connection reset     Patterns: "connection reset"
//	DB006 - Timeout              Patterns: "timeout"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the application logs
// for the original technical error.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns are defined
// before general ones ("context deadline exceeded" before "timeout").

package core

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains, so partial matches work.
// The first matching pattern wins, so order matters:
//   - More specific patterns should come before general ones
//   - Multiple patterns can map to the same error code
//
var errorPatterns = []errorPattern{
	// =========================================================================
	// Record and Source Errors
	// =========================================================================
	{
		pattern: "missing required field",
		msg: UserMessage{
			Message: "A required column could not be found",
			Action:  "Rename the column to one of the accepted names (e.g. nombre, direccion, cp, ciudad, zona, producto)",
			Code:    "FIELD001",
		},
	},
	{
		pattern: "source unavailable",
		msg: UserMessage{
			Message: "The spreadsheet could not be downloaded",
			Action:  "Check that the sheet is shared publicly and try again",
			Code:    "SRC001",
		},
	},
	{
		pattern: "invalid sheet url",
		msg: UserMessage{
			Message: "The link is not a spreadsheet link",
			Action:  "Paste the full sheet URL containing /d/<id>/",
			Code:    "SRC002",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE005)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is comma-separated with a header row",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a CSV file with data rows",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Mapping Errors (MAP001)
	// =========================================================================
	{
		pattern: "invalid mapping",
		msg: UserMessage{
			Message: "The product mapping is not valid",
			Action:  "Each product needs a code, and each combo at least one code",
			Code:    "MAP001",
		},
	},

	// =========================================================================
	// Load and Request Errors
	// =========================================================================
	{
		pattern: "invalid request",
		msg: UserMessage{
			Message: "The request contains invalid values",
			Action:  "Check the form fields and try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "too many concurrent requests",
		msg: UserMessage{
			Message: "System is busy processing other requests",
			Action:  "Please wait a moment and try again",
			Code:    "BUSY001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL005",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},

	// =========================================================================
	// Database Errors (DB004-DB006)
	// =========================================================================
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// This is the fallback for unexpected errors. Support staff should check
// application logs for the original technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := &MissingFieldError{Field: "city"}
//	msg := MapError(err)
//	// msg.Code == "FIELD001", msg.Message names "city"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var mfe *MissingFieldError
	if errors.As(err, &mfe) {
		return missingFieldMessage(mfe)
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// missingFieldMessage names the field, and the near-miss column if any.
func missingFieldMessage(e *MissingFieldError) UserMessage {
	msg := UserMessage{
		Message: fmt.Sprintf("Missing required column: %s", e.Field),
		Action:  "Rename the column to one of the accepted names (e.g. nombre, direccion, cp, ciudad, zona, producto)",
		Code:    "FIELD001",
	}
	if e.Suggestion != "" {
		msg.Action = fmt.Sprintf("Column %q looks close; rename it to one of the accepted names for %s", e.Suggestion, e.Field)
	}
	return msg
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
//
// Example output: "The uploaded file is empty (Code: FILE005). Please upload a CSV file with data rows"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
// The web layer logs errors that are not user facing at ERROR level.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a user-friendly message.
// The returned UserError preserves the original technical error for logging via Unwrap(),
// while providing a clean user message via Error().
// Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
