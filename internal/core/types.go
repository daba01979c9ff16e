package core

import "sort"

// Record is one decoded row: field name to (possibly coerced) value.
type Record map[string]any

// FieldSet is a set of field names used for membership tests.
// A nil FieldSet is a valid, empty set.
type FieldSet map[string]struct{}

// NewFieldSet builds a FieldSet from names. Empty names are ignored.
func NewFieldSet(names ...string) FieldSet {
	set := make(FieldSet, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

// Has reports whether name is in the set.
func (s FieldSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Len returns the number of names in the set.
func (s FieldSet) Len() int {
	return len(s)
}

// Names returns the set members sorted alphabetically.
func (s FieldSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DateParser is the date helper a Policy delegates date coercion to.
//
// Parse converts value using the given pattern and returns a date value,
// or whatever invalid marker the implementation uses. InputDateFormat is
// the pattern used when the policy does not name one.
type DateParser interface {
	Parse(value any, format string) any
	InputDateFormat() string
}

// Decoder turns a raw source string into coerced records.
type Decoder interface {
	Parse(raw string) ([]Record, error)
}

// DecoderFactory builds a decoder bound to a policy.
type DecoderFactory func(policy *Policy) Decoder

// FormatInfo contains display information about a source format.
type FormatInfo struct {
	Key          string   // Unique identifier: "csv"
	Label        string   // Display name: "Comma-separated values"
	ContentTypes []string // MIME types accepted for this format
}

// FormatDefinition contains everything needed to decode one source format.
type FormatDefinition struct {
	Info FormatInfo
	New  DecoderFactory
}
