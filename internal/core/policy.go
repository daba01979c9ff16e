package core

import (
	"sync/atomic"
)

// Policy describes, per consumer, how raw field values are coerced.
//
// Build a Policy once before parsing begins and share it by pointer. Fields
// may be changed by the owner until the first coercion call; after that the
// policy is read-only except for the lazily installed date helper.
type Policy struct {
	// EmptyAs replaces empty or missing values. nil means no substitution.
	EmptyAs any

	// NumberFields are coerced with ToNumber. A nil set is empty.
	NumberFields FieldSet

	// DateFields are coerced with the date helper. A nil set is empty.
	DateFields FieldSet

	// DateFormat overrides the date helper's own input pattern.
	DateFormat string

	formatter atomic.Pointer[formatterRef]
}

// formatterRef boxes the interface so it can live in an atomic.Pointer.
type formatterRef struct {
	parser DateParser
}

// NewPolicy creates a policy for the given number and date fields.
func NewPolicy(numberFields, dateFields []string) *Policy {
	return &Policy{
		NumberFields: NewFieldSet(numberFields...),
		DateFields:   NewFieldSet(dateFields...),
	}
}

// SetDateFormatter installs the date helper this policy shares across fields.
// A nil parser clears it so the default is built on next use.
func (p *Policy) SetDateFormatter(parser DateParser) {
	if parser == nil {
		p.formatter.Store(nil)
		return
	}
	p.formatter.Store(&formatterRef{parser: parser})
}

// DateFormatter returns the policy's date helper, building the default one
// on first use. Concurrent first calls all observe the same instance.
func (p *Policy) DateFormatter() DateParser {
	if ref := p.formatter.Load(); ref != nil {
		return ref.parser
	}

	candidate := &formatterRef{parser: DefaultDateFormatter()}
	if p.formatter.CompareAndSwap(nil, candidate) {
		return candidate.parser
	}
	return p.formatter.Load().parser
}

// ResolvedDateFormat returns DateFormat if set, otherwise the date helper's
// input pattern.
func (p *Policy) ResolvedDateFormat() string {
	if p.DateFormat != "" {
		return p.DateFormat
	}
	return p.DateFormatter().InputDateFormat()
}

// Overlap returns fields declared as both number and date fields, sorted.
// Such fields are coerced to a number first and the number is then handed
// to the date helper.
func (p *Policy) Overlap() []string {
	var both []string
	for _, name := range p.NumberFields.Names() {
		if p.DateFields.Has(name) {
			both = append(both, name)
		}
	}
	return both
}
