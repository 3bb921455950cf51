// Package normalize canonicalizes contact fields entered into lead forms.
// All functions are pure; invalid input fails the IsValid* predicates instead of erroring.
package normalize

import (
	"regexp"
	"strings"
)

const (
	countryCode = '7'
	trunkPrefix = '8'
	phoneDigits = 11
)

var emailPattern = regexp.MustCompile(`(?i)^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

// DigitsOnly strips every character that is not an ASCII digit
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// FormatPhone renders raw input as "+7 (XXX) XXX-XX-XX", punctuating only
// the groups that already have digits. Reformatting its own output is a no-op.
func FormatPhone(raw string) string {
	d := canonicalDigits(raw)

	area, exchange, first, second := group(d, 1, 4), group(d, 4, 7), group(d, 7, 9), group(d, 9, 11)

	var b strings.Builder
	b.WriteString("+7")
	if area != "" {
		b.WriteString(" (")
		b.WriteString(area)
		if len(area) == 3 {
			b.WriteByte(')')
		}
	}
	if exchange != "" {
		b.WriteByte(' ')
		b.WriteString(exchange)
	}
	if first != "" {
		b.WriteByte('-')
		b.WriteString(first)
	}
	if second != "" {
		b.WriteByte('-')
		b.WriteString(second)
	}
	return b.String()
}

// IsValidPhone reports whether the number holds exactly 11 digits starting with 7
func IsValidPhone(formatted string) bool {
	d := DigitsOnly(formatted)
	return len(d) == phoneDigits && d[0] == countryCode
}

// IsValidEmail accepts the empty string, since email is optional, or a local@domain.tld shape
func IsValidEmail(value string) bool {
	if value == "" {
		return true
	}
	return emailPattern.MatchString(value)
}

// canonicalDigits applies the trunk prefix rewrite, the country code and the length cap
func canonicalDigits(raw string) string {
	d := DigitsOnly(raw)
	if d != "" && d[0] == trunkPrefix {
		d = string(countryCode) + d[1:]
	}
	if d == "" || d[0] != countryCode {
		d = string(countryCode) + d
	}
	if len(d) > phoneDigits {
		d = d[:phoneDigits]
	}
	return d
}

func group(d string, from, to int) string {
	if len(d) <= from {
		return ""
	}
	if len(d) < to {
		to = len(d)
	}
	return d[from:to]
}
