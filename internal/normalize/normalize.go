// Package normalize derives the comparison keys used to match catalog
// entries and user emails regardless of casing and accents.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Key converts a title or author into its canonical comparison form:
// trimmed, NFKD-decomposed with combining marks removed, lowercased,
// null bytes stripped. "  Crime and Punishment " and "crime and
// punishment" produce the same key; so do "Café" and "Cafe".
//
// Keys exist only for matching. The stored title/author keep the
// user's original casing.
func Key(s string) string {
	s = sanitizeString(s)
	s = norm.NFKD.String(s)

	// Drop combining marks left by the decomposition.
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, s)

	return strings.ToLower(strings.TrimSpace(s))
}

// Email canonicalizes an email address for lookup and uniqueness
// checks. Addresses are matched case-insensitively.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(sanitizeString(s)))
}

// sanitizeString removes null bytes, which can cause issues in
// databases and JSON parsing.
func sanitizeString(s string) string {
	return strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		return r
	}, s)
}
