// Package normalize canonicalizes user input before validation and before
// it is sent upstream or used as a lookup key.
package normalize

import (
	"strings"
	"unicode"
)

// Phone strips spaces, dashes, dots and parentheses. A leading '+' is kept.
func Phone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
			// separator
		default:
			// keep anything else so validation can reject it
			b.WriteRune(r)
		}
	}
	return b.String()
}

// OTP trims surrounding whitespace and inner spaces people paste from SMS.
func OTP(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}

// Name trims surrounding whitespace and collapses inner runs of spaces.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role trims and lowercases a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Username trims and lowercases a demo-mode username.
func Username(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query or form value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
