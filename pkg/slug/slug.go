package slug

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLength bounds slugs accepted from URLs, in characters. It matches the
// VARCHAR(255) slug columns written by the CMS.
const MaxLength = 255

// Normalize trims surrounding whitespace from a slug taken from a URL.
// Case is kept: the store compares slugs exactly.
func Normalize(s string) string {
	return strings.TrimSpace(s)
}

// Valid reports whether s can name a stored record. Any letters are allowed,
// including Cyrillic ("новости-доставки-из-китая"); path separators and
// control characters are not.
func Valid(s string) bool {
	if s == "" || !utf8.ValidString(s) || utf8.RuneCountInString(s) > MaxLength {
		return false
	}
	for _, r := range s {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return false
		}
	}
	return true
}
