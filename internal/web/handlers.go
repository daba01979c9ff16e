package web

import (
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/coerce/internal/core"
	"github.com/JonMunkholm/coerce/internal/logging"
)

// Reasons reported for values that could not be coerced.
const (
	ReasonInvalidNumber = "invalid number"
	ReasonInvalidDate   = "invalid date"
)

// FormatResponse describes one decodable format.
type FormatResponse struct {
	Key          string   `json:"key"`
	Label        string   `json:"label"`
	ContentTypes []string `json:"content_types"`
}

// InvalidField identifies a value that failed coercion.
type InvalidField struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// DecodeResponse is the body returned by a successful decode.
type DecodeResponse struct {
	ParseID  string         `json:"parse_id"`
	Format   string         `json:"format"`
	Count    int            `json:"count"`
	Records  []core.Record  `json:"records"`
	Invalid  []InvalidField `json:"invalid"`
	Warnings []string       `json:"warnings,omitempty"`
}

// handleHealth reports liveness and decode capacity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"formats": core.FormatCount(),
		"decodes": s.limiter.Status(),
	})
}

// handleListFormats returns every registered format.
func (s *Server) handleListFormats(w http.ResponseWriter, r *http.Request) {
	defs := core.All()
	formats := make([]FormatResponse, len(defs))
	for i, def := range defs {
		formats[i] = FormatResponse{
			Key:          def.Info.Key,
			Label:        def.Info.Label,
			ContentTypes: def.Info.ContentTypes,
		}
	}
	writeJSON(w, http.StatusOK, formats)
}

// handleDecode decodes the request body with the requested format.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key, err := s.resolveFormat(r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	defer s.limiter.Release()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Decode.MaxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read body: %w", err), statusFor(err))
		return
	}
	if len(body) == 0 {
		s.respondError(w, r, core.ErrEmptyInput, http.StatusBadRequest)
		return
	}

	policy := s.requestPolicy(r)
	decoder, err := core.NewDecoder(key, policy)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	parseID := uuid.New().String()
	logger := logging.WithFields(ctx, "parse_id", parseID, "format", key)

	records, err := decoder.Parse(string(body))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	invalid := markInvalid(records)
	logger.Info("decoded",
		"bytes", len(body),
		"records", len(records),
		"invalid", len(invalid),
	)

	resp := DecodeResponse{
		ParseID: parseID,
		Format:  key,
		Count:   len(records),
		Records: records,
		Invalid: invalid,
	}
	if overlap := policy.Overlap(); len(overlap) > 0 {
		resp.Warnings = append(resp.Warnings,
			"fields listed as both number and date: "+strings.Join(overlap, ", "))
	}
	writeJSON(w, http.StatusOK, resp)
}

// resolveFormat takes the format from the URL, falling back to Content-Type.
func (s *Server) resolveFormat(r *http.Request) (string, error) {
	if key := chi.URLParam(r, "format"); key != "" {
		def, ok := core.Get(key)
		if !ok {
			return "", fmt.Errorf("%w: %q", core.ErrUnknownFormat, key)
		}
		return def.Info.Key, nil
	}

	contentType := r.Header.Get("Content-Type")
	def, ok := core.GetByContentType(contentType)
	if !ok {
		return "", fmt.Errorf("%w: content type %q", core.ErrUnknownFormat, contentType)
	}
	return def.Info.Key, nil
}

// requestPolicy builds the policy for one request. Query parameters that are
// absent fall back to the configured defaults.
func (s *Server) requestPolicy(r *http.Request) *core.Policy {
	q := r.URL.Query()

	policy := s.cfg.Coerce.Policy()
	if q.Has("number") {
		policy.NumberFields = core.NewFieldSet(splitList(q["number"])...)
	}
	if q.Has("date") {
		policy.DateFields = core.NewFieldSet(splitList(q["date"])...)
	}
	if q.Has("empty") {
		policy.EmptyAs = core.ParseLiteral(q.Get("empty"))
	}
	policy.DateFormat = strings.TrimSpace(q.Get("date_format"))
	policy.SetDateFormatter(s.dates)
	return policy
}

// splitList flattens repeated and comma-separated query values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// markInvalid replaces NaN numbers and invalid dates with nil so the records
// can be encoded, and reports where they were. Nested maps and lists are
// walked too; their fields are reported as "meta.x" or "items[0]".
func markInvalid(records []core.Record) []InvalidField {
	invalid := []InvalidField{}
	for i, rec := range records {
		for _, field := range sortedKeys(rec) {
			var found []InvalidField
			rec[field] = scrub(rec[field], field, i+1, &found)
			invalid = append(invalid, found...)
		}
	}
	return invalid
}

// scrub returns value with every unencodable leaf replaced by nil.
// Maps with non-string keys, as YAML produces, are rekeyed with fmt.Sprint.
func scrub(value any, path string, row int, found *[]InvalidField) any {
	if reason := invalidReason(value); reason != "" {
		*found = append(*found, InvalidField{Row: row, Field: path, Reason: reason})
		return nil
	}

	switch v := value.(type) {
	case map[string]any:
		for _, key := range sortedKeys(v) {
			v[key] = scrub(v[key], path+"."+key, row, found)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, elem := range v {
			out[fmt.Sprint(key)] = elem
		}
		return scrub(out, path, row, found)
	case []any:
		for i, elem := range v {
			v[i] = scrub(elem, fmt.Sprintf("%s[%d]", path, i), row, found)
		}
		return v
	}
	return value
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func invalidReason(value any) string {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ReasonInvalidNumber
		}
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return ReasonInvalidNumber
		}
	case pgtype.Date:
		if !v.Valid {
			return ReasonInvalidDate
		}
	}
	return ""
}
