package decoders

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/coerce/internal/core"
)

func init() {
	core.Register(core.FormatDefinition{
		Info: core.FormatInfo{
			Key:          "csv",
			Label:        "Comma-separated values",
			ContentTypes: []string{"text/csv", "application/csv"},
		},
		New: func(policy *core.Policy) core.Decoder {
			return NewCSVDecoder(policy)
		},
	})
}

// CSVDecoder decodes delimited text with a header row.
//
// Header names and cells are cleaned of spreadsheet artifacts before
// coercion. Rows shorter than the header leave the missing fields nil so
// EmptyAs still applies to them; extra cells are dropped.
type CSVDecoder struct {
	core.Base

	// Comma is the field delimiter (default ',').
	Comma rune
}

// NewCSVDecoder creates a comma-delimited decoder bound to policy.
func NewCSVDecoder(policy *core.Policy) *CSVDecoder {
	return &CSVDecoder{Base: core.NewBase(policy), Comma: ','}
}

// Parse decodes raw into one record per data row.
func (d *CSVDecoder) Parse(raw string) ([]core.Record, error) {
	reader := csv.NewReader(core.WrapForDecoding(strings.NewReader(raw)))
	reader.Comma = d.Comma
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []core.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", core.ErrInvalidCSV, err)
	}
	for i, h := range header {
		header[i] = core.CleanCell(h)
	}

	records := []core.Record{}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", core.ErrInvalidCSV, err)
		}
		if isBlankRow(row) {
			continue
		}

		rec := make(core.Record, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			var value any
			if i < len(row) {
				value = core.CleanCell(row[i])
			}
			rec[name] = d.Coerce(name, value)
		}
		records = append(records, rec)
	}

	return records, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
