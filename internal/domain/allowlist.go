package domain

import (
	"net/url"
	"strings"
)

// AllowedDomainList is the set of host[:port] entries a cross-application
// redirect may target. Every outbound navigation URL must pass IsAllowed
// before any token is minted for it.
type AllowedDomainList []string

// NewAllowedDomainList builds a list from raw entries, dropping empty ones.
func NewAllowedDomainList(entries []string) AllowedDomainList {
	list := make(AllowedDomainList, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e != "" {
			list = append(list, e)
		}
	}
	return list
}

// IsAllowed reports whether rawURL is an absolute URL whose host[:port] is
// on the list, either exactly or as a subdomain on a dot boundary
// ("docs.example.com" matches entry "example.com", "evilexample.com" does
// not). Malformed input is untrusted input and yields false, never an error.
func (l AllowedDomainList) IsAllowed(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	host := u.Host // port included only when explicitly present
	for _, entry := range l {
		if host == entry || strings.HasSuffix(host, "."+entry) {
			return true
		}
	}
	return false
}
