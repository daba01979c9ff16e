package core

// dates.go provides the default date helper used by date coercion.
//
// Patterns use the familiar token style (YYYY-MM-DD, DD/MM/YY, MMM D, YYYY)
// and are translated once into Go reference layouts. Parsed values come back
// as pgtype.Date so they drop straight into PostgreSQL-bound pipelines;
// anything unparseable comes back with Valid=false.

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// DefaultInputDateFormat is the pattern used when neither the policy nor the
// helper configuration names one.
const DefaultInputDateFormat = "YYYY-MM-DD"

// DefaultTwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
// Example with pivot=20 in year 2025: "46" -> 1946 (not 2046), "24" -> 2024
const DefaultTwoDigitYearPivot = 20

// Fallback layouts for lenient parsing, split by year format for proper
// 2-digit year handling.
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"2006-01-02", "2006/01/02", "2006.01.02",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
		time.RFC3339,
	}
)

// formatTokens maps pattern tokens to Go layout fragments.
// Longer tokens must come before their prefixes.
var formatTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"YY", "06"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"MM", "01"},
	{"M", "1"},
	{"dddd", "Monday"},
	{"ddd", "Mon"},
	{"DD", "02"},
	{"D", "2"},
	{"HH", "15"},
	{"H", "15"},
	{"hh", "03"},
	{"h", "3"},
	{"mm", "04"},
	{"m", "4"},
	{"ss", "05"},
	{"s", "5"},
	{"SSS", "000"},
	{"A", "PM"},
	{"a", "pm"},
	{"ZZ", "-0700"},
	{"Z", "-07:00"},
}

// DateFormatterConfig configures a DateFormatter.
type DateFormatterConfig struct {
	// InputDateFormat is the default pattern (default: YYYY-MM-DD)
	InputDateFormat string

	// Lenient enables fallback to common US/EU/ISO layouts when the
	// requested pattern does not match.
	Lenient bool

	// TwoDigitYearPivot controls century selection for YY years (default: 20)
	TwoDigitYearPivot int

	// Location is the time zone for values without an offset (default: UTC)
	Location *time.Location
}

// DateFormatter parses raw values into pgtype.Date.
// Safe for concurrent use.
type DateFormatter struct {
	inputFormat string
	lenient     bool
	pivot       int
	loc         *time.Location
	now         func() time.Time

	layouts sync.Map // pattern -> compiled layout
}

// NewDateFormatter creates a DateFormatter, applying defaults for unset fields.
func NewDateFormatter(cfg DateFormatterConfig) *DateFormatter {
	if cfg.InputDateFormat == "" {
		cfg.InputDateFormat = DefaultInputDateFormat
	}
	if cfg.TwoDigitYearPivot <= 0 {
		cfg.TwoDigitYearPivot = DefaultTwoDigitYearPivot
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &DateFormatter{
		inputFormat: cfg.InputDateFormat,
		lenient:     cfg.Lenient,
		pivot:       cfg.TwoDigitYearPivot,
		loc:         cfg.Location,
		now:         time.Now,
	}
}

// DefaultDateFormatter returns a strict formatter with default settings.
func DefaultDateFormatter() *DateFormatter {
	return NewDateFormatter(DateFormatterConfig{})
}

// InputDateFormat returns the pattern used when callers do not supply one.
func (f *DateFormatter) InputDateFormat() string {
	return f.inputFormat
}

// Parse implements DateParser. The result is always a pgtype.Date.
func (f *DateFormatter) Parse(value any, format string) any {
	return f.ParseDate(value, format)
}

// ParseDate converts value to a pgtype.Date using format.
// An empty format falls back to the formatter's input format.
func (f *DateFormatter) ParseDate(value any, format string) pgtype.Date {
	switch v := value.(type) {
	case pgtype.Date:
		return v
	case time.Time:
		return pgtype.Date{Time: truncateDay(v), Valid: true}
	case *time.Time:
		if v == nil {
			return pgtype.Date{Valid: false}
		}
		return pgtype.Date{Time: truncateDay(*v), Valid: true}
	}

	s, ok := dateText(value)
	if !ok {
		return pgtype.Date{Valid: false}
	}

	if format == "" {
		format = f.inputFormat
	}

	layout := f.layout(format)
	if t, err := time.ParseInLocation(layout, s, f.loc); err == nil {
		if usesTwoDigitYear(layout) {
			t = f.applyPivot(t)
		}
		return pgtype.Date{Time: truncateDay(t), Valid: true}
	}

	if f.lenient {
		return f.parseLenient(s)
	}
	return pgtype.Date{Valid: false}
}

// parseLenient tries the common layouts, 4-digit years first (unambiguous).
func (f *DateFormatter) parseLenient(s string) pgtype.Date {
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.ParseInLocation(layout, s, f.loc); err == nil {
			return pgtype.Date{Time: truncateDay(t), Valid: true}
		}
	}
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.ParseInLocation(layout, s, f.loc); err == nil {
			return pgtype.Date{Time: truncateDay(f.applyPivot(t)), Valid: true}
		}
	}
	return pgtype.Date{Valid: false}
}

func (f *DateFormatter) applyPivot(t time.Time) time.Time {
	pivotYear := f.now().Year() + f.pivot
	if t.Year() > pivotYear {
		return t.AddDate(-100, 0, 0)
	}
	if t.Year() <= pivotYear-100 {
		return t.AddDate(100, 0, 0)
	}
	return t
}

func (f *DateFormatter) layout(format string) string {
	if cached, ok := f.layouts.Load(format); ok {
		return cached.(string)
	}
	layout := TranslateDateFormat(format)
	f.layouts.Store(format, layout)
	return layout
}

// TranslateDateFormat converts a token pattern such as "DD/MM/YYYY" into a
// Go reference layout. Text inside square brackets is copied literally.
func TranslateDateFormat(format string) string {
	var b strings.Builder
	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i:], ']')
			if end > 0 {
				b.WriteString(format[i+1 : i+end])
				i += end + 1
				continue
			}
		}

		matched := false
		for _, tok := range formatTokens {
			if strings.HasPrefix(format[i:], tok.token) {
				b.WriteString(tok.layout)
				i += len(tok.token)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(format[i])
			i++
		}
	}
	return b.String()
}

// dateText extracts the text to parse from a raw value.
// Every numeric kind is rendered without exponent so 20230101 reads as
// "20230101".
func dateText(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case []byte:
		s := strings.TrimSpace(string(v))
		return s, s != ""
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", false
		}
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return dateText(float64(v))
	case json.Number:
		return dateText(string(v))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return dateText(ToNumber(v))
	default:
		return "", false
	}
}

func usesTwoDigitYear(layout string) bool {
	return strings.Contains(layout, "06") && !strings.Contains(layout, "2006")
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
