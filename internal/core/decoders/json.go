package decoders

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/coerce/internal/core"
)

func init() {
	core.Register(core.FormatDefinition{
		Info: core.FormatInfo{
			Key:          "json",
			Label:        "JSON / NDJSON",
			ContentTypes: []string{"application/json", "application/x-ndjson"},
		},
		New: func(policy *core.Policy) core.Decoder {
			return NewJSONDecoder(policy)
		},
	})
}

// JSONDecoder decodes a JSON array of objects, a single object, or
// newline-delimited objects.
type JSONDecoder struct {
	core.Base
}

// NewJSONDecoder creates a JSON decoder bound to policy.
func NewJSONDecoder(policy *core.Policy) *JSONDecoder {
	return &JSONDecoder{Base: core.NewBase(policy)}
}

// Parse decodes raw into records.
func (d *JSONDecoder) Parse(raw string) ([]core.Record, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []core.Record{}, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var rows []map[string]any
		if err := json.Unmarshal([]byte(trimmed), &rows); err != nil {
			return nil, fmt.Errorf("%w: json: %v", core.ErrInvalidDocument, err)
		}
		return coerceRows(d.FieldCoercer, rows), nil
	}

	// One or more objects, one after another (NDJSON or a single object)
	dec := json.NewDecoder(strings.NewReader(trimmed))
	var rows []map[string]any
	for {
		var row map[string]any
		err := dec.Decode(&row)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: json object %d: %v", core.ErrInvalidDocument, len(rows)+1, err)
		}
		rows = append(rows, row)
	}
	return coerceRows(d.FieldCoercer, rows), nil
}

// coerceRows runs every row through the coercer, skipping null rows.
func coerceRows(c core.FieldCoercer, rows []map[string]any) []core.Record {
	records := make([]core.Record, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		records = append(records, c.CoerceRecord(row))
	}
	return records
}
