package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"docgate/internal/domain"
)

// ValidateAccess answers nginx auth_request checks: the session must be
// valid at the identity provider and the identity must pass the allowlist.
// Uses a cache-through strategy so the provider is not hit on every request.
type ValidateAccess struct {
	validator domain.SessionValidator
	cache     domain.SessionCache
	rules     domain.AuthorizationRules
	logger    *slog.Logger
}

// NewValidateAccess creates a new ValidateAccess usecase.
func NewValidateAccess(v domain.SessionValidator, c domain.SessionCache, rules domain.AuthorizationRules, l *slog.Logger) *ValidateAccess {
	return &ValidateAccess{validator: v, cache: c, rules: rules, logger: l}
}

// Execute validates the session identified by cookieValue and enforces the
// authorization policy on the resolved identity.
func (uc *ValidateAccess) Execute(ctx context.Context, cookieValue string) (*domain.Identity, error) {
	if cached, found := uc.cache.Get(cookieValue); found {
		identity := &domain.Identity{
			UserID:      cached.UserID,
			Email:       cached.Email,
			DisplayName: cached.DisplayName,
			SessionID:   cookieValue,
		}
		return uc.authorize(ctx, identity)
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

	return uc.authorize(ctx, identity)
}

func (uc *ValidateAccess) authorize(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	if !uc.rules.IsAuthorized(identity.Email) {
		uc.logger.WarnContext(ctx, "validate rejected by allowlist",
			"user_id", identity.UserID,
			"email", domain.MaskEmail(identity.Email))
		return nil, domain.ErrUnauthorizedEmail
	}
	return identity, nil
}
