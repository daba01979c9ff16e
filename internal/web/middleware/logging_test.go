package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestLogger_RecordsRequest(t *testing.T) {
	buf := captureLogs(t)

	h := chimw.RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("hello"))
	})))

	req := httptest.NewRequest(http.MethodPost, "/api/decode/csv", nil)
	req.Header.Set("Content-Type", "text/csv")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "POST", entry["method"])
	assert.Equal(t, "/api/decode/csv", entry["path"])
	assert.EqualValues(t, http.StatusCreated, entry["status"])
	assert.EqualValues(t, 5, entry["bytes"])
	assert.Equal(t, "text/csv", entry["content_type"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestLogger_LevelFollowsStatus(t *testing.T) {
	tests := map[int]string{
		http.StatusOK:                 "INFO",
		http.StatusBadRequest:         "WARN",
		http.StatusServiceUnavailable: "ERROR",
	}

	for status, want := range tests {
		buf := captureLogs(t)
		h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, want, entry["level"], "status %d", status)
	}
}

func TestResponseWriter_FirstHeaderWins(t *testing.T) {
	rec := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rec, status: http.StatusOK}

	w.WriteHeader(http.StatusAccepted)
	w.WriteHeader(http.StatusTeapot)

	assert.Equal(t, http.StatusAccepted, w.status)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Same(t, rec, w.Unwrap())
}
