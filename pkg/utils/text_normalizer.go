package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Match strength scores used to order candidates from a source.
// Higher is a stronger match.
const (
	MatchExact    = 100
	MatchPrefix   = 80
	MatchContains = 60
	MatchNone     = 0
)

// Normalize canonicalizes free text for comparison: lower-case, NFKD
// decomposition, combining marks removed (Thai tone marks and vowel signs,
// Latin accents), whitespace runs collapsed to single spaces, trimmed.
// Idempotent; empty input returns empty output.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	lowered := strings.ToLower(text)

	folded, _, err := transform.String(foldTransformer(), lowered)
	if err != nil {
		// Malformed input; fall back to the lowered text
		folded = lowered
	}

	return strings.Join(strings.Fields(folded), " ")
}

func foldTransformer() transform.Transformer {
	return transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
}

// Matches reports whether text contains query, comparing normalized forms.
func Matches(text, query string) bool {
	if text == "" || query == "" {
		return false
	}
	return strings.Contains(Normalize(text), Normalize(query))
}

// MatchScore ranks how strongly text matches query: exact > prefix > contains.
// Both sides are normalized before comparison.
func MatchScore(text, query string) int {
	if text == "" || query == "" {
		return MatchNone
	}

	nt := Normalize(text)
	nq := Normalize(query)

	switch {
	case nt == nq:
		return MatchExact
	case strings.HasPrefix(nt, nq):
		return MatchPrefix
	case strings.Contains(nt, nq):
		return MatchContains
	default:
		return MatchNone
	}
}
