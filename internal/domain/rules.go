package domain

import "strings"

// AuthorizationRules is the immutable allowlist configuration deciding which
// email identities may use the application. Comparison is case-insensitive
// on the whole address, per RFC 5321 practice for the domain part and the
// de-facto convention for mailbox names.
type AuthorizationRules struct {
	Emails       []string
	EmailDomains []string

	// AllowAllWhenEmpty opts into permitting every verified email when both
	// sets are empty. The default is deny-all: an unconfigured allowlist
	// must fail closed.
	AllowAllWhenEmpty bool
}

// IsAuthorized reports whether email may use the protected application.
// An empty email (unverified identity) is never authorized.
func (r AuthorizationRules) IsAuthorized(email string) bool {
	if email == "" {
		return false
	}

	if len(r.Emails) == 0 && len(r.EmailDomains) == 0 {
		return r.AllowAllWhenEmpty
	}

	for _, allowed := range r.Emails {
		if strings.EqualFold(email, allowed) {
			return true
		}
	}

	// EmailDomain rejects malformed addresses, so a domain rule can only
	// match something that parses as an email in the first place.
	domain := EmailDomain(email)
	if domain == "" {
		return false
	}
	for _, allowed := range r.EmailDomains {
		if strings.EqualFold(domain, allowed) {
			return true
		}
	}

	return false
}
