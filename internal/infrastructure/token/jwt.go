package token

import (
	"context"
	"fmt"
	"time"

	"docgate/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// defaultTTL matches what the documentation site already validates.
const defaultTTL = time.Hour

// Template holds the signing parameters for one named audience. The secret
// is shared with the receiving application and never leaves this process.
type Template struct {
	Secret string
	TTL    time.Duration
}

// docsClaims is the wire format the documentation site expects:
// sub, email, iat, exp, signed with HS256.
type docsClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// DocsTokenMinter signs short-lived tokens addressed to named audiences.
// Implements domain.TokenMinter.
type DocsTokenMinter struct {
	templates map[string]Template
}

// NewDocsTokenMinter creates a minter for the given audience templates.
func NewDocsTokenMinter(templates map[string]Template) *DocsTokenMinter {
	return &DocsTokenMinter{templates: templates}
}

// Mint produces a signed token for identity scoped to audience. An audience
// without a configured template fails; a misconfigured template must never
// fall back to an unsigned or empty token.
func (m *DocsTokenMinter) Mint(_ context.Context, identity *domain.Identity, audience string) (string, error) {
	tpl, ok := m.templates[audience]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrAudienceUnknown, audience)
	}
	if tpl.Secret == "" {
		return "", fmt.Errorf("%w: no signing secret for audience %q", domain.ErrTokenGeneration, audience)
	}

	ttl := tpl.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	now := time.Now()
	claims := docsClaims{
		Email: identity.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(tpl.Secret))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTokenGeneration, err)
	}
	return signed, nil
}
