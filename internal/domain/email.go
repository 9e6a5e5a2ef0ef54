package domain

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether email has a plausible mailbox@domain.tld
// shape. This is a format check, not a deliverability check.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// EmailDomain returns the domain part of a valid email address, or "" when
// the address is malformed.
func EmailDomain(email string) string {
	if !IsValidEmail(email) {
		return ""
	}
	return email[strings.LastIndex(email, "@")+1:]
}

// MaskEmail masks the mailbox name for log output (j******e@example.com).
// Addresses too short to mask are returned unchanged.
func MaskEmail(email string) string {
	if !IsValidEmail(email) {
		return email
	}

	at := strings.LastIndex(email, "@")
	name := email[:at]
	if len(name) <= 2 {
		return email
	}

	return name[:1] + strings.Repeat("*", len(name)-2) + name[len(name)-1:] + email[at:]
}
