package common

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SanitiseAlias keeps only ASCII letters, the same filter the favourite name input applies.
func SanitiseAlias(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return -1
	}, s)
}

// CapitaliseName lower-cases a provider site name and upper-cases its first letter,
// so "PAISLEY" becomes "Paisley".
func CapitaliseName(s string) string {
	s = strings.ToLower(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// HasPrefixFold reports whether s begins with prefix, ignoring case.
func HasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
