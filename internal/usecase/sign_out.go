package usecase

import (
	"context"
	"log/slog"

	"docgate/internal/domain"
)

// SignOut revokes the current session at the identity provider and evicts
// it from the cache.
type SignOut struct {
	revoker domain.SessionRevoker
	cache   domain.SessionCache
	logger  *slog.Logger
}

// NewSignOut creates a new SignOut usecase.
func NewSignOut(r domain.SessionRevoker, c domain.SessionCache, l *slog.Logger) *SignOut {
	return &SignOut{revoker: r, cache: c, logger: l}
}

// Execute signs out the session identified by cookieValue.
func (uc *SignOut) Execute(ctx context.Context, cookieValue string) error {
	if cookieValue == "" {
		return domain.ErrSessionNotFound
	}

	if err := uc.revoker.SignOut(ctx, cookieValue); err != nil {
		uc.logger.ErrorContext(ctx, "sign-out failed",
			"session_prefix", sessionPrefix(cookieValue), "error", err)
		return err
	}

	uc.cache.Delete(cookieValue)
	uc.logger.InfoContext(ctx, "session signed out",
		"session_prefix", sessionPrefix(cookieValue))
	return nil
}
