package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"docgate/internal/domain"

	"golang.org/x/sync/singleflight"
)

// tokenParam is the query parameter name the receiving application reads.
const tokenParam = "token"

// RedirectDocs builds the navigation URL for the external documentation
// site: allowlist check first, then token mint, then URL assembly. The
// allowlist check blocking the mint is a security invariant, not an
// optimization: no token is ever produced for an unvalidated destination.
type RedirectDocs struct {
	allowlist domain.AllowedDomainList
	minter    domain.TokenMinter
	logger    *slog.Logger
	flights   singleflight.Group
}

// NewRedirectDocs creates a new RedirectDocs usecase.
func NewRedirectDocs(allowlist domain.AllowedDomainList, minter domain.TokenMinter, logger *slog.Logger) *RedirectDocs {
	return &RedirectDocs{allowlist: allowlist, minter: minter, logger: logger}
}

// Execute validates targetBaseURL, mints a token for audience, and returns
// the final URL with the token appended as a percent-encoded query
// parameter. Failures are returned to the caller for user-facing reporting
// and are never retried here: each mint is short-lived and may leave an
// audit trail at the provider.
//
// Concurrent attempts for the same session, target, and audience are
// collapsed into a single mint.
func (uc *RedirectDocs) Execute(ctx context.Context, identity *domain.Identity, targetBaseURL, audience string) (string, error) {
	if identity == nil {
		return "", domain.ErrNotAuthenticated
	}

	if !uc.allowlist.IsAllowed(targetBaseURL) {
		uc.logger.WarnContext(ctx, "redirect target rejected",
			"target", targetBaseURL,
			"user_id", identity.UserID)
		return "", fmt.Errorf("%w: %s", domain.ErrDomainNotAllowed, targetBaseURL)
	}

	key := identity.SessionID + "\x00" + targetBaseURL + "\x00" + audience
	result, err, _ := uc.flights.Do(key, func() (interface{}, error) {
		return uc.minter.Mint(ctx, identity, audience)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTokenMintFailed, err)
	}
	token, _ := result.(string)
	if token == "" {
		return "", fmt.Errorf("%w: provider returned empty token for audience %q", domain.ErrTokenMintFailed, audience)
	}

	// targetBaseURL already passed the allowlist, so it parses.
	u, err := url.Parse(targetBaseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrDomainNotAllowed, err)
	}
	q := u.Query()
	q.Set(tokenParam, token)
	u.RawQuery = q.Encode()

	uc.logger.InfoContext(ctx, "docs redirect prepared",
		"target_host", u.Host,
		"audience", audience,
		"user_id", identity.UserID)

	return u.String(), nil
}
