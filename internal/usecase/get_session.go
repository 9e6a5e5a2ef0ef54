package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"docgate/internal/domain"
)

// kratosCookieName is the session cookie issued by the identity provider.
const kratosCookieName = "ory_kratos_session"

// SessionResult holds the data returned by GetSession.
type SessionResult struct {
	Identity  *domain.Identity
	Decision  domain.AccessDecision
	CreatedAt time.Time
}

// GetSession resolves the current identity (cache first, then the identity
// provider) and runs it through the access gate. A missing or rejected
// session is a normal outcome, not an error: the result carries the
// not-authenticated decision instead.
type GetSession struct {
	validator domain.SessionValidator
	cache     domain.SessionCache
	gate      *AccessGate
	logger    *slog.Logger
}

// NewGetSession creates a new GetSession usecase.
func NewGetSession(v domain.SessionValidator, c domain.SessionCache, gate *AccessGate, l *slog.Logger) *GetSession {
	return &GetSession{validator: v, cache: c, gate: gate, logger: l}
}

// Execute resolves the session identified by cookieValue and evaluates the
// authorization policy against it.
func (uc *GetSession) Execute(ctx context.Context, cookieValue string) (*SessionResult, error) {
	if cookieValue == "" {
		decision := uc.gate.Evaluate(ctx, domain.IdentityChange{Loaded: true})
		return &SessionResult{Decision: decision}, nil
	}

	identity, err := uc.resolve(ctx, cookieValue)
	if err != nil {
		if isSignedOut(err) {
			decision := uc.gate.Evaluate(ctx, domain.IdentityChange{Loaded: true})
			return &SessionResult{Decision: decision}, nil
		}
		return nil, err
	}

	decision := uc.gate.Evaluate(ctx, domain.IdentityChange{Loaded: true, Identity: identity})
	if decision.State == domain.AccessUnauthorized {
		// The gate revoked the session; drop the stale cache entry too.
		uc.cache.Delete(cookieValue)
	}

	return &SessionResult{
		Identity:  identity,
		Decision:  decision,
		CreatedAt: identity.CreatedAt,
	}, nil
}

// resolve returns the identity for cookieValue with a cache-through
// strategy.
func (uc *GetSession) resolve(ctx context.Context, cookieValue string) (*domain.Identity, error) {
	if cached, found := uc.cache.Get(cookieValue); found {
		return &domain.Identity{
			UserID:      cached.UserID,
			Email:       cached.Email,
			DisplayName: cached.DisplayName,
			SessionID:   cookieValue,
		}, nil
	}

	fullCookie := fmt.Sprintf("%s=%s", kratosCookieName, cookieValue)
	identity, err := uc.validator.ValidateSession(ctx, fullCookie)
	if err != nil {
		return nil, err
	}

	identity.SessionID = cookieValue
	uc.cache.Set(cookieValue, domain.CachedSession{
		UserID:      identity.UserID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
	})
	return identity, nil
}

// isSignedOut reports whether err means "no signed-in identity" rather than
// a provider failure.
func isSignedOut(err error) bool {
	return errors.Is(err, domain.ErrSessionNotFound) ||
		errors.Is(err, domain.ErrSessionExpired) ||
		errors.Is(err, domain.ErrSessionInactive) ||
		errors.Is(err, domain.ErrAuthFailed)
}
