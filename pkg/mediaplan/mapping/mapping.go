// Package mapping maps raw spreadsheet headers onto canonical field names.
package mapping

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/config"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/models"
	"github.com/ukaji3/mediaplan-go/pkg/mediaplan/textnorm"
)

const (
	// FuzzyThreshold is the minimum similarity for a fuzzy match.
	FuzzyThreshold = 0.75
	// UnmappedConfidence is reported for headers matching nothing.
	UnmappedConfidence = 0.1
	// substringConfidence is reported for word-boundary substring matches.
	substringConfidence = 0.9
)

// Match is the outcome of mapping one header.
type Match struct {
	Key        models.FieldKey
	Confidence float64
	Raw        string
}

// Mapped reports whether the header resolved to a canonical field.
func (m Match) Mapped() bool { return !m.Key.Unmapped }

// Name renders the mapped column name.
func (m Match) Name() string { return m.Key.String() }

type form struct {
	key   string
	words []string
}

type entry struct {
	name  string
	forms []form
}

// Mapper holds the compiled canonical column table. It is safe for
// concurrent use.
type Mapper struct {
	entries []entry
}

// New compiles a mapper from the ordered column table. Canonical fields
// missing from the table map by their own name only.
func New(columns []config.ColumnAlternatives) *Mapper {
	m := &Mapper{}
	seen := make(map[string]bool)
	for _, col := range columns {
		e := entry{name: col.Name}
		for _, s := range append([]string{col.Name}, col.Alternatives...) {
			if f := newForm(s); f.key != "" {
				e.forms = append(e.forms, f)
			}
		}
		m.entries = append(m.entries, e)
		seen[col.Name] = true
	}
	for _, name := range models.CanonicalColumns {
		if !seen[name] {
			m.entries = append(m.entries, entry{name: name, forms: []form{newForm(name)}})
		}
	}
	return m
}

func newForm(s string) form {
	return form{key: NormalizeHeader(s), words: textnorm.Words(s)}
}

// NormalizeHeader folds case, accents, underscores and punctuation so
// "Début_Date " and "DEBUT DATE" compare equal.
func NormalizeHeader(s string) string {
	return textnorm.Key(s)
}

// Map resolves a header by exact match, then fuzzy similarity, then falls
// back to an unmapped key named after the cleaned header.
func (m *Mapper) Map(header string, rawIndex int) Match {
	if name, ok := m.exact(header); ok {
		return canonical(header, name, 1.0, rawIndex)
	}
	if name, score, ok := m.fuzzy(header, false); ok {
		return canonical(header, name, score, rawIndex)
	}
	return unmapped(header, rawIndex)
}

// Resolve is the matcher used while extracting tables: exact match, then
// word-boundary substring match, then fuzzy similarity, then unmapped.
// Percent-sign guards apply to every non-exact step.
func (m *Mapper) Resolve(header string, rawIndex int) Match {
	if name, ok := m.exact(header); ok {
		return canonical(header, name, 1.0, rawIndex)
	}
	if name, ok := m.MapToStandardColumn(header); ok {
		return canonical(header, name, substringConfidence, rawIndex)
	}
	if name, score, ok := m.fuzzy(header, true); ok {
		return canonical(header, name, score, rawIndex)
	}
	return unmapped(header, rawIndex)
}

// MapToStandardColumn finds the canonical field whose name or alternative
// occurs as a word sequence inside header; the longest occurrence wins.
// A header with a percent sign only maps to a percentage field, so
// "Reach %" never lands in UNIQUES_REACH.
func (m *Mapper) MapToStandardColumn(header string) (string, bool) {
	words := textnorm.Words(header)
	if len(words) == 0 {
		return "", false
	}
	percent := strings.Contains(header, "%")
	best, bestLen := "", 0
	for _, e := range m.entries {
		if !allowed(e.name, percent) {
			continue
		}
		for _, f := range e.forms {
			if len(f.key) > bestLen && textnorm.ContainsPhrase(words, f.words) {
				best, bestLen = e.name, len(f.key)
			}
		}
	}
	return best, best != ""
}

func allowed(field string, percent bool) bool {
	if !percent {
		return true
	}
	return models.IsPercentField(field)
}

func (m *Mapper) exact(header string) (string, bool) {
	key := NormalizeHeader(header)
	if key == "" {
		return "", false
	}
	for _, e := range m.entries {
		for _, f := range e.forms {
			if f.key == key {
				return e.name, true
			}
		}
	}
	return "", false
}

func (m *Mapper) fuzzy(header string, guarded bool) (string, float64, bool) {
	key := NormalizeHeader(header)
	if key == "" {
		return "", 0, false
	}
	words := textnorm.Words(header)
	percent := strings.Contains(header, "%")
	best, bestScore := "", 0.0
	for _, e := range m.entries {
		if guarded && !allowed(e.name, percent) {
			continue
		}
		for _, f := range e.forms {
			if s := similarity(key, words, f); s > bestScore {
				best, bestScore = e.name, s
			}
		}
	}
	if bestScore < FuzzyThreshold {
		return "", bestScore, false
	}
	return best, bestScore, true
}

// Similarity scores two headers in [0, 1]: 0.7 of normalized Levenshtein
// similarity plus 0.3 of the shared-word ratio.
func Similarity(a, b string) float64 {
	return similarity(NormalizeHeader(a), textnorm.Words(a), newForm(b))
}

func similarity(key string, words []string, f form) float64 {
	longest := max(utf8.RuneCountInString(key), utf8.RuneCountInString(f.key))
	if longest == 0 {
		return 0
	}
	lev := 1 - float64(levenshtein.ComputeDistance(key, f.key))/float64(longest)
	return 0.7*lev + 0.3*sharedWordRatio(words, f.words)
}

func sharedWordRatio(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(b))
	for _, w := range b {
		set[w] = true
	}
	shared := 0
	counted := make(map[string]bool, len(a))
	for _, w := range a {
		if set[w] && !counted[w] {
			shared++
			counted[w] = true
		}
	}
	return float64(shared) / float64(max(len(a), len(b)))
}

func canonical(raw, name string, confidence float64, rawIndex int) Match {
	return Match{Key: models.CanonicalKey(name, rawIndex), Confidence: confidence, Raw: raw}
}

func unmapped(raw string, rawIndex int) Match {
	cleaned := textnorm.Clean(raw)
	if cleaned == "" {
		cleaned = "UNKNOWN_COL_" + strconv.Itoa(rawIndex)
	}
	return Match{Key: models.UnmappedKey(cleaned, rawIndex), Confidence: UnmappedConfidence, Raw: raw}
}
