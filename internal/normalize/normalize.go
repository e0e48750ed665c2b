// Package normalize turns free-text club names into comparable keys.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// punctuation is removed without leaving a space behind
const punctuation = `.'",:;-()[]/`

// Key canonicalizes a raw team name: accents are stripped, the fixed
// punctuation set is removed, surrounding whitespace trimmed and the
// result lower-cased. Empty input yields an empty key.
func Key(raw string) string {
	if raw == "" {
		return ""
	}

	// transform.Chain is stateful, so a fresh chain is built per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, raw)
	if err != nil {
		stripped = raw
	}

	stripped = strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, stripped)

	return strings.ToLower(strings.TrimSpace(stripped))
}
