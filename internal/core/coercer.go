package core

import "log/slog"

// FieldCoercer applies a Policy to individual (field, value) pairs.
// It never sees whole records except through CoerceRecord.
type FieldCoercer struct {
	policy *Policy
}

// emptyPolicy is read, never written, by the zero FieldCoercer.
var emptyPolicy = &Policy{}

// NewFieldCoercer binds a coercer to policy. A nil policy coerces nothing.
//
// A policy that lists a field as both number and date is accepted but
// logged, since the number pass will feed a float into the date helper.
func NewFieldCoercer(policy *Policy) FieldCoercer {
	if policy == nil {
		policy = &Policy{}
	}
	if both := policy.Overlap(); len(both) > 0 {
		slog.Warn("fields declared as both number and date; number coercion runs first",
			"fields", both,
		)
	}
	return FieldCoercer{policy: policy}
}

// Policy returns the policy the coercer was built with, or nil for the
// zero FieldCoercer.
func (c FieldCoercer) Policy() *Policy {
	return c.policy
}

// p returns the policy to read. The zero FieldCoercer behaves as if bound
// to an empty policy.
func (c FieldCoercer) p() *Policy {
	if c.policy == nil {
		return emptyPolicy
	}
	return c.policy
}

// HasNumericFields reports whether any field is declared numeric.
func (c FieldCoercer) HasNumericFields() bool {
	return c.p().NumberFields.Len() > 0
}

// HasDateFields reports whether any field is declared as a date.
func (c FieldCoercer) HasDateFields() bool {
	return c.p().DateFields.Len() > 0
}

// CoerceNumber converts value with ToNumber if field is a number field.
// Unparseable values become NaN.
func (c FieldCoercer) CoerceNumber(field string, value any) any {
	if !c.p().NumberFields.Has(field) {
		return value
	}
	return ToNumber(value)
}

// CoerceDate parses value with the policy's date helper if field is a date field.
func (c FieldCoercer) CoerceDate(field string, value any) any {
	if !c.p().DateFields.Has(field) {
		return value
	}
	return c.p().DateFormatter().Parse(value, c.p().ResolvedDateFormat())
}

// CoerceEmpty substitutes EmptyAs for an empty value. Any non-nil EmptyAs,
// including "", counts as a declared replacement.
func (c FieldCoercer) CoerceEmpty(value any) any {
	if c.p().EmptyAs != nil && !HasValue(value) {
		return c.p().EmptyAs
	}
	return value
}

// Coerce runs empty substitution, then number coercion, then date coercion.
// Empty values must become the sentinel before the parsers see them.
func (c FieldCoercer) Coerce(field string, value any) any {
	value = c.CoerceEmpty(value)
	value = c.CoerceNumber(field, value)
	return c.CoerceDate(field, value)
}

// CoerceRecord returns a copy of rec with every field coerced.
func (c FieldCoercer) CoerceRecord(rec Record) Record {
	numbers := c.HasNumericFields()
	dates := c.HasDateFields()

	out := make(Record, len(rec))
	for field, value := range rec {
		value = c.CoerceEmpty(value)
		if numbers {
			value = c.CoerceNumber(field, value)
		}
		if dates {
			value = c.CoerceDate(field, value)
		}
		out[field] = value
	}
	return out
}

// Base is the format-agnostic decoder every concrete decoder embeds.
type Base struct {
	FieldCoercer
}

// NewBase creates a Base bound to policy.
func NewBase(policy *Policy) Base {
	return Base{FieldCoercer: NewFieldCoercer(policy)}
}

// Parse is the extension point for concrete decoders; Base decodes nothing.
func (Base) Parse(string) ([]Record, error) {
	return []Record{}, nil
}
