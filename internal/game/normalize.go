// internal/game/normalize.go
//
// Name canonicalization for uniqueness checks and chain-letter extraction.
//
// Normalize output is used only for equality comparison, never for display:
// whitespace runs collapse to single spaces, everything is lowercased, and
// the result is put into Unicode NFKD so visually equivalent forms
// (fullwidth letters, precomposed accents) compare equal.

package game

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes a character name for uniqueness comparison.
func Normalize(name string) string {
	name = strings.ToLower(strings.Join(strings.Fields(name), " "))
	return norm.NFKD.String(name)
}

// FirstLetter returns the first alphabetic character of name, lowercased,
// scanning left to right past punctuation, digits, and whitespace.
// Returns "" if the name contains no letter at all.
func FirstLetter(name string) string {
	for _, r := range norm.NFKD.String(name) {
		if unicode.IsLetter(r) {
			return string(unicode.ToLower(r))
		}
	}
	return ""
}

// LastLetter is the same scan from the right.
func LastLetter(name string) string {
	rs := []rune(norm.NFKD.String(name))
	for i := len(rs) - 1; i >= 0; i-- {
		if unicode.IsLetter(rs[i]) {
			return string(unicode.ToLower(rs[i]))
		}
	}
	return ""
}
