// error_messages.go: Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// Coercion itself never fails: unreadable numbers become NaN and unreadable
// dates become invalid dates. The codes below cover decoding and transport.
//
// # Decode Errors (DEC001-DEC099)
//
//	DEC001 - Invalid CSV: File is not a valid CSV
//	         Action: Ensure file is comma-separated with consistent quoting
//	         Patterns: "invalid csv"
//
//	DEC002 - Invalid document: Document could not be decoded
//	         Action: Check that the body matches the selected format
//	         Patterns: "invalid document"
//
//	DEC003 - Unknown format: The requested format is not supported
//	         Action: Use one of the formats listed at /api/formats
//	         Patterns: "unknown format"
//
//	DEC004 - Empty input: The request body is empty
//	         Action: Send the raw data in the request body
//	         Patterns: "empty input"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Body too large: Request body exceeds the size limit
//	         Action: Split the input into smaller chunks
//	         Patterns: "request body too large"
//
//	REQ002 - System busy: Too many decodes in progress
//	         Action: Please wait a moment and try again
//	         Patterns: "too many concurrent decodes"
//
//	REQ003 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	REQ004 - Request timeout: Request timed out
//	         Action: Try a smaller input or check your connection
//	         Patterns: "context deadline exceeded"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins.

package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors wrapped by decoders and the transport layer.
var (
	ErrInvalidCSV      = errors.New("invalid csv")
	ErrInvalidDocument = errors.New("invalid document")
	ErrUnknownFormat   = errors.New("unknown format")
	ErrEmptyInput      = errors.New("empty input")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure file is comma-separated with consistent quoting",
			Code:    "DEC001",
		},
	},
	{
		pattern: "invalid document",
		msg: UserMessage{
			Message: "Document could not be decoded",
			Action:  "Check that the body matches the selected format",
			Code:    "DEC002",
		},
	},
	{
		pattern: "unknown format",
		msg: UserMessage{
			Message: "The requested format is not supported",
			Action:  "Use one of the formats listed at /api/formats",
			Code:    "DEC003",
		},
	},
	{
		pattern: "empty input",
		msg: UserMessage{
			Message: "The request body is empty",
			Action:  "Send the raw data in the request body",
			Code:    "DEC004",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "Request body exceeds the size limit",
			Action:  "Split the input into smaller chunks",
			Code:    "REQ001",
		},
	},
	{
		pattern: "too many concurrent decodes",
		msg: UserMessage{
			Message: "Too many decodes in progress",
			Action:  "Please wait a moment and try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller input or check your connection",
			Code:    "REQ004",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// Returns a generic message if no specific pattern matches.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}

	errStr := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(errStr, p.pattern) {
			return p.msg
		}
	}
	return defaultMessage
}

// FormatUserError returns "message. action (code)" for display.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}
	msg := MapError(err)
	if msg.Action != "" {
		return fmt.Sprintf("%s. %s (%s)", msg.Message, msg.Action, msg.Code)
	}
	return fmt.Sprintf("%s (%s)", msg.Message, msg.Code)
}

// UserError wraps an error with its user-facing message.
type UserError struct {
	UserMessage
	Err error
}

func (e *UserError) Error() string {
	return e.Err.Error()
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError wraps err with its mapped user message.
func NewUserError(err error) *UserError {
	return &UserError{UserMessage: MapError(err), Err: err}
}
