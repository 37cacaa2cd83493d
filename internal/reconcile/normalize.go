package reconcile

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents removes combining marks after NFD decomposition, so that
// "Vučević" and "Vucevic" compare equal.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// apostrophes covers the variants different providers use in names like
// "De'Aaron" (ASCII, right single quote, modifier letter).
var apostrophes = strings.NewReplacer("'", "", "’", "", "ʼ", "")

// NormalizeName canonicalizes a player or team name for comparison:
// accents stripped, apostrophes removed, whitespace collapsed, lowercased.
// Idempotent: NormalizeName(NormalizeName(x)) == NormalizeName(x).
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}

	normalized, _, err := transform.String(stripAccents, name)
	if err != nil {
		// Transform only fails on malformed UTF-8; fall back to the raw string
		normalized = name
	}

	normalized = apostrophes.Replace(normalized)
	normalized = strings.Join(strings.Fields(normalized), " ")
	return strings.ToLower(normalized)
}
