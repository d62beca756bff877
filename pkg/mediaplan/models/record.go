package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// FieldKey names a mapped column: either a canonical field or an unmapped
// header carried through under its cleaned name.
type FieldKey struct {
	// Name is the canonical field or the cleaned raw header.
	Name string
	// Unmapped is set when Name is not a canonical field.
	Unmapped bool
	// RawIndex is the source column position within the region, -1 if none.
	RawIndex int
	// Dup is the disambiguation ordinal; 0 for the first occurrence.
	Dup int
}

// CanonicalKey builds a key for a canonical field.
func CanonicalKey(name string, rawIndex int) FieldKey {
	return FieldKey{Name: name, RawIndex: rawIndex}
}

// UnmappedKey builds a key for a header that matched no canonical field.
func UnmappedKey(cleaned string, rawIndex int) FieldKey {
	return FieldKey{Name: cleaned, Unmapped: true, RawIndex: rawIndex}
}

// String renders the column name used in records.
func (k FieldKey) String() string {
	s := k.Name
	if k.Unmapped {
		s += "_UNMAPPED"
	}
	if k.Dup > 0 {
		s += "_DUP" + strconv.Itoa(k.Dup)
	}
	return s
}

// Disambiguate numbers repeated keys in order of appearance so every
// rendered name is unique. The first occurrence keeps its plain name.
func Disambiguate(keys []FieldKey) []FieldKey {
	out := make([]FieldKey, len(keys))
	seen := make(map[string]int, len(keys))
	taken := make(map[string]bool, len(keys))
	for _, k := range keys {
		taken[k.String()] = true
	}
	for i, k := range keys {
		base := k.String()
		n := seen[base]
		seen[base] = n + 1
		if n > 0 {
			k.Dup = n
			for taken[k.String()] {
				k.Dup++
			}
			taken[k.String()] = true
		}
		out[i] = k
	}
	return out
}

// Record is a flat, insertion-ordered field map.
type Record struct {
	keys   []string
	values map[string]Value
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]Value)}
}

// Get returns the named value, or null.
func (r *Record) Get(name string) Value {
	return r.values[name]
}

// Has reports whether the field exists, even if null.
func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Set stores a value, appending the field if new.
func (r *Record) Set(name string, v Value) {
	if _, ok := r.values[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.values[name] = v
}

// Keys returns field names in insertion order.
func (r *Record) Keys() []string {
	return append([]string(nil), r.keys...)
}

// EnsureSchema adds every missing canonical field as null.
func (r *Record) EnsureSchema() {
	for _, name := range CanonicalColumns {
		if !r.Has(name) {
			r.Set(name, Null())
		}
	}
}

// Fingerprint is a stable rendering of every field, used to spot exact
// duplicates. Canonical fields come first in schema order, then the
// remaining fields by name.
func (r *Record) Fingerprint() string {
	var b bytes.Buffer
	for _, name := range CanonicalColumns {
		v := r.Get(name)
		fmt.Fprintf(&b, "%d:%s\x1f", v.Kind, v.String())
	}
	var extra []string
	for _, k := range r.keys {
		if !IsCanonicalField(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		v := r.values[k]
		fmt.Fprintf(&b, "%s=%d:%s\x1f", k, v.Kind, v.String())
	}
	return b.String()
}

// Ordered returns a copy with canonical fields first, in schema order, and
// the remaining fields after them in insertion order.
func (r *Record) Ordered() *Record {
	out := NewRecord()
	for _, name := range CanonicalColumns {
		if r.Has(name) {
			out.Set(name, r.Get(name))
		}
	}
	for _, k := range r.keys {
		if !IsCanonicalField(k) {
			out.Set(k, r.values[k])
		}
	}
	return out
}

// MarshalJSON writes fields in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		b.Write(name)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Column is one mapped column of a Table.
type Column struct {
	Key FieldKey
	// Raw is the original header text.
	Raw string
	// Confidence is the mapping confidence in [0, 1].
	Confidence float64
}

// Table is a mapped, rectangular block of values.
type Table struct {
	Columns []Column
	Rows    [][]Value
}

// ColumnIndex returns the index of the column rendered as name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Key.String() == name {
			return i
		}
	}
	return -1
}

// Records converts every row into a Record keyed by rendered column names.
func (t *Table) Records() []*Record {
	out := make([]*Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := NewRecord()
		for i, c := range t.Columns {
			v := Null()
			if i < len(row) {
				v = row[i]
			}
			rec.Set(c.Key.String(), v)
		}
		out = append(out, rec)
	}
	return out
}

// ExtractedTable is a region materialized twice: positional raw strings
// for shape detection, and a canonical-mapped table.
type ExtractedTable struct {
	Region     Region
	RawHeaders []string
	RawRows    [][]string
	Mapped     Table
	// Shifted is set when column-shift correction moved the region.
	Shifted bool
}
