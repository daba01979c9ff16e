package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"invalid csv", fmt.Errorf("%w: record on line 2: bare quote", ErrInvalidCSV), "DEC001"},
		{"invalid document", fmt.Errorf("%w: json: unexpected end", ErrInvalidDocument), "DEC002"},
		{"unknown format", fmt.Errorf("%w: xlsx", ErrUnknownFormat), "DEC003"},
		{"empty input", ErrEmptyInput, "DEC004"},
		{"body too large", errors.New("http: request body too large"), "REQ001"},
		{"busy", ErrTooManyDecodes, "REQ002"},
		{"cancelled", context.Canceled, "REQ003"},
		{"deadline", context.DeadlineExceeded, "REQ004"},
		{"case insensitive", errors.New("INVALID CSV header"), "DEC001"},
		{"unknown", errors.New("something odd"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapError(tt.err); got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	if got := MapError(nil); got != (UserMessage{}) {
		t.Errorf("MapError(nil) = %+v, want zero value", got)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestUserError(t *testing.T) {
	base := fmt.Errorf("decode: %w", ErrUnknownFormat)
	userErr := NewUserError(base)

	if userErr.Code != "DEC003" {
		t.Errorf("Code = %q, want DEC003", userErr.Code)
	}
	if !errors.Is(userErr, ErrUnknownFormat) {
		t.Error("UserError should unwrap to the original error")
	}

	wrapped := fmt.Errorf("handler: %w", userErr)
	if got := MapError(wrapped); got.Code != "DEC003" {
		t.Errorf("MapError(wrapped UserError).Code = %q, want DEC003", got.Code)
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrEmptyInput)
	want := "The request body is empty. Send the raw data in the request body (DEC004)"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
}
