// Package models defines data structures for media plan normalization.
package models

import (
	"encoding/json"
	"strconv"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	// KindNull marks an absent value.
	KindNull ValueKind = iota
	// KindText marks a string value.
	KindText
	// KindNumber marks a numeric value.
	KindNumber
)

// Value is a single cell or field value. Absence is a variant of its own
// instead of a sentinel string, so "-" or "N/A" never leak into the data.
type Value struct {
	Kind ValueKind
	Text string
	Num  float64
}

// Null returns the absent value.
func Null() Value { return Value{} }

// Text wraps a string.
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Number wraps a float.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Float returns the numeric payload and whether v is a number.
func (v Value) Float() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// String renders the value; nulls render as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// MarshalJSON encodes nulls as null, numbers as numbers and text as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindText:
		return json.Marshal(v.Text)
	case KindNumber:
		return json.Marshal(v.Num)
	default:
		return []byte("null"), nil
	}
}
