package domain

import "context"

// SessionValidator validates a session cookie against the identity provider.
type SessionValidator interface {
	ValidateSession(ctx context.Context, cookie string) (*Identity, error)
}

// SessionRevoker signs a session out at the identity provider.
type SessionRevoker interface {
	SignOut(ctx context.Context, sessionID string) error
}

// SessionCache provides read/write access to cached session data.
type SessionCache interface {
	Get(sessionID string) (*CachedSession, bool)
	Set(sessionID string, session CachedSession)
	Delete(sessionID string)
}

// TokenMinter produces a signed token scoped to a named audience, understood
// by the receiving application. Minting fails for audiences the minter is
// not configured for.
type TokenMinter interface {
	Mint(ctx context.Context, identity *Identity, audience string) (string, error)
}

// IdentityEvents delivers identity-change notifications for the session
// behind a cookie value (the raw value, without the cookie name). Emitted
// identities carry that cookie value as their SessionID so a consumer can
// hand it straight to SessionRevoker.SignOut. The callback fires on every
// transition (signed in, signed out, loading done) until the returned
// unsubscribe function is called.
type IdentityEvents interface {
	Subscribe(cookieValue string, fn func(IdentityChange)) (unsubscribe func())
}

// CSRFTokenGenerator generates CSRF tokens from session identifiers.
type CSRFTokenGenerator interface {
	Generate(sessionID string) (string, error)
}

// IdentityAdmin retrieves identity information from the admin API.
type IdentityAdmin interface {
	GetFirstIdentityID(ctx context.Context) (string, error)
}

// ProfileStore is the key-value record store holding user profiles.
type ProfileStore interface {
	Get(ctx context.Context, userID string) (Profile, error)
	Save(ctx context.Context, profile Profile) error
}

// AccessRequestStore persists submitted access requests for admin review.
type AccessRequestStore interface {
	Save(ctx context.Context, req AccessRequest) error
}

// AccessNotifier is the fire-and-forget side channel telling an admin that
// someone asked for access. Implementations must not block request handling
// on delivery.
type AccessNotifier interface {
	NotifyAccessRequest(ctx context.Context, req AccessRequest) error
}
