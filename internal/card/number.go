package card

import (
	"regexp"
	"strings"
)

// NoCardNumber marks items that legitimately carry no identifier,
// e.g. promotional non-card goods. Distinct from "" (extraction failed).
const NoCardNumber = "-"

// Identifier patterns used by yuyu-tei. The promo form (P-055) is
// tried before the set form (OP01-120); the bare digits-dash-digits
// form is a last resort since it also matches prices split across
// lines and similar noise.
var (
	numberShortRe = regexp.MustCompile(`(?:OP|ST|PRB|EB|P)-\d+`)
	numberFullRe  = regexp.MustCompile(`(?:OP|ST|PRB|EB|P)\d+-\d+`)
	numberBareRe  = regexp.MustCompile(`\d+-\d+`)

	numberValidRe     = regexp.MustCompile(`^(?:OP|ST|PRB|EB|P)\d*-\d+$`)
	numberBareValidRe = regexp.MustCompile(`^\d+-\d+$`)
	setPrefixRe       = regexp.MustCompile(`^(?:OP|ST|PRB|EB|P)\d+`)
)

// ValidNumber reports whether s as a whole is a well-formed prefixed
// card number.
func ValidNumber(s string) bool {
	return numberValidRe.MatchString(strings.TrimSpace(s))
}

// ValidBareNumber reports whether s as a whole is a bare numeric
// identifier (09-118 style), the form carried by items sold outside
// the lettered sets.
func ValidBareNumber(s string) bool {
	return numberBareValidRe.MatchString(strings.TrimSpace(s))
}

// FindNumber scans free text for the first card identifier, trying the
// prefixed patterns before the bare numeric one.
func FindNumber(text string) string {
	if m := numberShortRe.FindString(text); m != "" {
		return m
	}
	if m := numberFullRe.FindString(text); m != "" {
		return m
	}
	return numberBareRe.FindString(text)
}

// SetPrefix extracts the set code implied by a search term, e.g. "OP01"
// from "op01" or "OP01-120". Returns the normalized term itself when it
// does not start with a set code.
func SetPrefix(term string) string {
	normalized := strings.ToUpper(strings.TrimSpace(term))
	if m := setPrefixRe.FindString(normalized); m != "" {
		return m
	}
	return normalized
}

// MatchesSearchTerm reports whether a card number belongs to the search
// term's set. A set-code term ("OP01") requires a prefix match so that
// OP13 cards never leak into OP01 results; any other term falls back to
// substring matching ("OP01-120" style searches).
func MatchesSearchTerm(cardNumber, term string) bool {
	if cardNumber == "" {
		return false
	}
	normalized := strings.ToUpper(strings.TrimSpace(term))
	number := strings.ToUpper(strings.TrimSpace(cardNumber))
	prefix := SetPrefix(term)

	if len(prefix) >= 3 && setPrefixFullRe.MatchString(prefix) {
		return strings.HasPrefix(number, prefix)
	}
	return strings.Contains(number, normalized) || number == normalized
}

var setPrefixFullRe = regexp.MustCompile(`^(?:OP|ST|PRB|EB|P)\d+$`)
