// Package textnorm folds human-typed labels (headers, sheet names, sentinel
// cells) into comparable forms.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold upper-cases s, strips combining marks ("Début" -> "DEBUT"), turns
// underscores into spaces and collapses whitespace runs.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ReplaceAll(folded, "_", " ")
	folded = strings.Join(strings.Fields(folded), " ")
	return strings.ToUpper(folded)
}

// Words splits the folded form of s on anything that is not a letter,
// digit or percent sign.
func Words(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '%')
	})
}

// Key is the punctuation-insensitive form used for label lookups:
// "Campaign Freq." and "campaign  freq" share a key.
func Key(s string) string {
	return strings.Join(Words(s), " ")
}

// Clean renders s as an identifier-safe upper-case name, joining words
// with underscores.
func Clean(s string) string {
	return strings.Join(Words(s), "_")
}

// ContainsPhrase reports whether the word sequence phrase occurs
// contiguously inside words.
func ContainsPhrase(words, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(words) {
		return false
	}
outer:
	for i := 0; i+len(phrase) <= len(words); i++ {
		for j, p := range phrase {
			if words[i+j] != p {
				continue outer
			}
		}
		return true
	}
	return false
}

// HasAnyPrefix reports whether any word starts with one of prefixes.
func HasAnyPrefix(words []string, prefixes ...string) bool {
	for _, w := range words {
		for _, p := range prefixes {
			if strings.HasPrefix(w, p) {
				return true
			}
		}
	}
	return false
}
