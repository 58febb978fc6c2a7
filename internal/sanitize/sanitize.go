package sanitize

import (
	"strings"
	"unicode"
)

// FileName keeps letters, digits, space, '.', '_' and '-' and trims
// surrounding whitespace. Every other rune is dropped.
func FileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if allowed(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Segment applies the FileName allowlist to a single directory segment and
// strips leading and trailing dots, so "." and ".." collapse to "".
func Segment(name string) string {
	return strings.Trim(FileName(name), ". ")
}

func allowed(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsNumber(r) {
		return true
	}
	switch r {
	case ' ', '.', '_', '-':
		return true
	}
	return false
}
