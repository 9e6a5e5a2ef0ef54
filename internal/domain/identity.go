package domain

import "time"

// Identity represents an authenticated user identity from the identity provider.
// It is only ever constructed from a provider-confirmed session; the core
// never fabricates one.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
	SessionID   string
	CreatedAt   time.Time
}

// IdentityChange is a snapshot of the session state delivered on every
// provider notification. Loaded=false means the provider has not resolved
// the session yet; that state is neither authorized nor unauthorized.
type IdentityChange struct {
	Loaded   bool
	Identity *Identity
}

// AccessState is the access gate's current state.
type AccessState int

const (
	AccessUnknown AccessState = iota
	AccessEvaluating
	AccessAuthorized
	AccessUnauthorized
	AccessNotAuthenticated
)

// String returns the wire representation used in responses and logs.
func (s AccessState) String() string {
	switch s {
	case AccessEvaluating:
		return "evaluating"
	case AccessAuthorized:
		return "authorized"
	case AccessUnauthorized:
		return "unauthorized"
	case AccessNotAuthenticated:
		return "not_authenticated"
	default:
		return "unknown"
	}
}

// AccessDecision is the outcome of an access gate evaluation. Reason is
// empty except for the unauthorized state, where it carries the
// human-readable denial message shown on the login surface.
type AccessDecision struct {
	State  AccessState
	Reason string
}

// CachedSession holds session data stored in the cache.
type CachedSession struct {
	UserID      string
	Email       string
	DisplayName string
}

// Profile is the user profile record kept in the profile store.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccessRequest is a pending request for an account, submitted by a user
// whose email is not on the allowlist.
type AccessRequest struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Reason    string    `json:"reason,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// AccessRequestStatusPending is the initial status of a stored access request.
const AccessRequestStatusPending = "pending"
