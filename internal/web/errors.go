package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with its technical details and the request ID, and
// returned to the client as a JSON body carrying the user-facing message and
// the support code from core.MapError.

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/coerce/internal/core"
	"github.com/JonMunkholm/coerce/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes its user-facing form.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	msg := core.MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", msg.Code,
	)

	writeJSON(w, statusCode, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// statusFor picks the HTTP status for a decode failure.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrUnknownFormat):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManyDecodes):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrInvalidCSV),
		errors.Is(err, core.ErrInvalidDocument),
		errors.Is(err, core.ErrEmptyInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
