package domain

import "errors"

// Authentication errors.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionExpired   = errors.New("session expired")
	ErrAuthFailed       = errors.New("authentication failed")
	ErrSessionInactive  = errors.New("session is not active")
	ErrMissingIdentity  = errors.New("missing identity in session")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Authorization errors.
var (
	ErrUnauthorizedEmail = errors.New("email not on allowlist")
)

// Redirect errors.
var (
	ErrDomainNotAllowed = errors.New("redirect domain not allowed")
	ErrTokenMintFailed  = errors.New("token mint failed")
	ErrAudienceUnknown  = errors.New("unknown token audience")
)

// Token errors.
var (
	ErrTokenGeneration   = errors.New("token generation failed")
	ErrCSRFSecretMissing = errors.New("CSRF secret not configured")
)

// External service errors.
var (
	ErrKratosUnavailable  = errors.New("identity provider unavailable")
	ErrAdminNotConfigured = errors.New("admin API not configured")
	ErrNoIdentitiesFound  = errors.New("no identities found")
	ErrProfileNotFound    = errors.New("profile not found")
)

// Rate limiting errors.
var (
	ErrRateLimited = errors.New("rate limit exceeded")
)
