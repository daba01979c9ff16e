package core

// convert.go provides the value primitives the coercer is built on.
//
// These functions handle the messy reality of imported data:
//   - Currency symbols and thousand separators in numbers
//   - Accounting format for negatives: (123.45)
//   - Excel formula prefixes (="value")
//   - Quoted cells left behind by exporters
//
// ToNumber never fails loudly: anything it cannot read becomes NaN and the
// caller decides what to do with it.

import (
	"encoding/json"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// HasValue reports whether v carries a value.
// nil, typed nil pointers, maps and slices, and the empty string are empty.
// Whitespace, 0, false and NaN are values.
func HasValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return x != ""
	case []byte:
		return len(x) > 0
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return !rv.IsNil()
	}
	return true
}

// ToNumber converts v to a float64.
// Returns NaN when v has no numeric reading.
func ToNumber(v any) float64 {
	switch x := v.(type) {
	case nil:
		return math.NaN()
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case json.Number:
		return parseNumber(string(x))
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return math.NaN()
		}
		return f.Float64
	case []byte:
		return parseNumber(string(x))
	case string:
		return parseNumber(x)
	default:
		return math.NaN()
	}
}

// parseNumber parses a numeric cell, tolerating currency symbols,
// thousands separators and accounting-style negatives.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
			return math.NaN()
		}
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return math.NaN()
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

// ParseLiteral interprets a configured replacement value.
// JSON literals (0, true, "n/a", null) decode to their Go values; any other
// text is returned as-is. An empty string yields nil, meaning "no value".
func ParseLiteral(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}
