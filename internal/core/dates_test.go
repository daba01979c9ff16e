package core

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func day(y int, m time.Month, d int) pgtype.Date {
	return pgtype.Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Valid: true}
}

var invalidDate = pgtype.Date{Valid: false}

func fixedNow(y int) func() time.Time {
	return func() time.Time { return time.Date(y, 6, 1, 0, 0, 0, 0, time.UTC) }
}

func TestTranslateDateFormat(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"YYYY-MM-DD", "2006-01-02"},
		{"MM/DD/YYYY", "01/02/2006"},
		{"D.M.YY", "2.1.06"},
		{"MMM D, YYYY", "Jan 2, 2006"},
		{"dddd, MMMM D YYYY", "Monday, January 2 2006"},
		{"YYYYMMDD", "20060102"},
		{"YYYY-MM-DD HH:mm:ss", "2006-01-02 15:04:05"},
		{"h:mm A", "3:04 PM"},
		{"YYYY-MM-DD[T]HH:mm:ssZ", "2006-01-02T15:04:05-07:00"},
	}

	for _, tt := range tests {
		if got := TranslateDateFormat(tt.format); got != tt.want {
			t.Errorf("TranslateDateFormat(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDateFormatter_ParseDate(t *testing.T) {
	f := DefaultDateFormatter()
	f.now = fixedNow(2025)

	tests := []struct {
		name   string
		input  any
		format string
		want   pgtype.Date
	}{
		{"default format", "2023-05-01", "", day(2023, 5, 1)},
		{"explicit format", "05/01/2023", "MM/DD/YYYY", day(2023, 5, 1)},
		{"european", "01.05.2023", "DD.MM.YYYY", day(2023, 5, 1)},
		{"month name", "May 1, 2023", "MMM D, YYYY", day(2023, 5, 1)},
		{"with time", "2023-05-01 13:45:00", "YYYY-MM-DD HH:mm:ss", day(2023, 5, 1)},
		{"surrounding space", "  2023-05-01 ", "", day(2023, 5, 1)},
		{"compact from number", 20230101.0, "YYYYMMDD", day(2023, 1, 1)},
		{"compact from int", 20230101, "YYYYMMDD", day(2023, 1, 1)},
		{"compact from uint", uint(20230101), "YYYYMMDD", day(2023, 1, 1)},
		{"compact from json.Number", json.Number("20230101"), "YYYYMMDD", day(2023, 1, 1)},
		{"year from int16", int16(2023), "YYYY", day(2023, 1, 1)},
		{"year from uint16", uint16(2023), "YYYY", day(2023, 1, 1)},
		{"two digit year from int8", int8(23), "YY", day(2023, 1, 1)},
		{"two digit year from uint8", uint8(46), "YY", day(1946, 1, 1)},
		{"two digit year recent", "01/02/24", "MM/DD/YY", day(2024, 1, 2)},
		{"two digit year past pivot", "01/02/46", "MM/DD/YY", day(1946, 1, 2)},
		{"time value", time.Date(2023, 5, 1, 18, 30, 0, 0, time.UTC), "", day(2023, 5, 1)},
		{"pgtype passthrough", day(2020, 2, 29), "", day(2020, 2, 29)},

		{"wrong pattern", "2023-05-01", "MM/DD/YYYY", invalidDate},
		{"impossible date", "2023-02-30", "", invalidDate},
		{"empty", "", "", invalidDate},
		{"nil", nil, "", invalidDate},
		{"NaN", math.NaN(), "YYYYMMDD", invalidDate},
		{"bool", true, "", invalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.ParseDate(tt.input, tt.format); got != tt.want {
				t.Errorf("ParseDate(%#v, %q) = %v, want %v", tt.input, tt.format, got, tt.want)
			}
		})
	}
}

func TestDateFormatter_Lenient(t *testing.T) {
	strict := DefaultDateFormatter()
	lenient := NewDateFormatter(DateFormatterConfig{Lenient: true})
	lenient.now = fixedNow(2025)

	inputs := map[string]pgtype.Date{
		"1/2/2024":    day(2024, 1, 2),
		"2024/01/02":  day(2024, 1, 2),
		"Jan 2, 2024": day(2024, 1, 2),
		"2 Jan 2024":  day(2024, 1, 2),
		"20240102":    day(2024, 1, 2),
		"1/2/99":      day(1999, 1, 2),
	}

	for input, want := range inputs {
		if got := strict.ParseDate(input, ""); got.Valid {
			t.Errorf("strict ParseDate(%q) = %v, want invalid", input, got)
		}
		if got := lenient.ParseDate(input, ""); got != want {
			t.Errorf("lenient ParseDate(%q) = %v, want %v", input, got, want)
		}
	}

	if got := lenient.ParseDate("not a date", ""); got.Valid {
		t.Errorf("lenient ParseDate(garbage) = %v, want invalid", got)
	}
}

func TestDateFormatter_Defaults(t *testing.T) {
	f := NewDateFormatter(DateFormatterConfig{})
	if f.InputDateFormat() != DefaultInputDateFormat {
		t.Errorf("InputDateFormat() = %q, want %q", f.InputDateFormat(), DefaultInputDateFormat)
	}
	if f.pivot != DefaultTwoDigitYearPivot {
		t.Errorf("pivot = %d, want %d", f.pivot, DefaultTwoDigitYearPivot)
	}
	if f.loc != time.UTC {
		t.Errorf("loc = %v, want UTC", f.loc)
	}

	custom := NewDateFormatter(DateFormatterConfig{InputDateFormat: "DD/MM/YYYY"})
	if got := custom.Parse("01/05/2023", ""); got != day(2023, 5, 1) {
		t.Errorf("Parse with configured default = %v, want 2023-05-01", got)
	}
}

func TestDateFormatter_PivotBoundary(t *testing.T) {
	f := NewDateFormatter(DateFormatterConfig{TwoDigitYearPivot: 10})
	f.now = fixedNow(2025)

	// 2035 is exactly the pivot year and stays; 2036 rolls back.
	if got := f.ParseDate("35-01-01", "YY-MM-DD"); got != day(2035, 1, 1) {
		t.Errorf("ParseDate(35) = %v, want 2035-01-01", got)
	}
	if got := f.ParseDate("36-01-01", "YY-MM-DD"); got != day(1936, 1, 1) {
		t.Errorf("ParseDate(36) = %v, want 1936-01-01", got)
	}
}
