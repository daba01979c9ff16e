// Package core provides the field coercion layer shared by every decoder.
//
// Format decoders (CSV, JSON, YAML, MessagePack) turn a raw source into
// records of raw field values. This package decides what those values become:
// it knows nothing about any source grammar and only ever looks at one
// (field name, value) pair at a time.
//
// # Policy
//
// A [Policy] is built once by the decoder's owner before parsing begins:
//
//	policy := core.NewPolicy([]string{"qty"}, []string{"shipped_on"})
//	policy.EmptyAs = 0.0
//	policy.DateFormat = "MM/DD/YYYY"
//
// Field sets may be left nil; a nil set is simply empty. The date helper is
// created on first use and stored on the policy, so every field of every row
// decoded with that policy shares one helper. Owners that want a configured
// helper install it up front with [Policy.SetDateFormatter].
//
// # Coercion Order
//
// [FieldCoercer.Coerce] always runs, in order:
//
//  1. [FieldCoercer.CoerceEmpty]: empty values become Policy.EmptyAs
//  2. [FieldCoercer.CoerceNumber]: number fields go through [ToNumber]
//  3. [FieldCoercer.CoerceDate]: date fields go through the date helper
//
// A field listed as both number and date is turned into a float first and
// the float is then parsed as a date (20230101 with "YYYYMMDD" still works).
//
// # Invalid Values
//
// Coercion never returns an error. Numbers that cannot be read become NaN;
// dates that cannot be read become pgtype.Date{Valid: false}. Detecting and
// reporting those markers is the consumer's job.
//
// # Decoders
//
// Concrete decoders embed [Base] and register a [FormatDefinition] at init
// time with [Register]. [Base.Parse] decodes nothing and returns an empty
// slice.
package core
