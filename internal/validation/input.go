// Package validation contains input validation helpers.
package validation

import "strings"

// IsValidEmail performs a minimal structural check of an email address:
// exactly one "@" with a non-empty local part and a dotted domain.
func IsValidEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}

	domain := email[at+1:]
	dot := strings.LastIndex(domain, ".")
	if dot <= 0 || dot == len(domain)-1 {
		return false
	}

	return !strings.ContainsAny(email, " \t")
}

// IsValidPublicationYear reports whether a year is a plausible four-digit
// publication year.
func IsValidPublicationYear(year int) bool {
	return year >= 1000 && year <= 9999
}
