package usecase

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"docgate/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionUC(validator *mockValidator, cache *mockCache, revoker *mockRevoker, rules domain.AuthorizationRules) *GetSession {
	gate := NewAccessGate(rules, revoker, newMockEvents(), slog.Default())
	return NewGetSession(validator, cache, gate, slog.Default())
}

func TestGetSession_NoCookie(t *testing.T) {
	revoker := &mockRevoker{}
	uc := newSessionUC(&mockValidator{}, newMockCache(), revoker, domain.AuthorizationRules{EmailDomains: []string{"gmail.com"}})

	result, err := uc.Execute(context.Background(), "")

	require.NoError(t, err)
	assert.Nil(t, result.Identity)
	assert.Equal(t, domain.AccessNotAuthenticated, result.Decision.State)
	assert.Empty(t, result.Decision.Reason)
	assert.Equal(t, 0, revoker.callCount())
}

func TestGetSession_CacheHit_Authorized(t *testing.T) {
	cache := newMockCache()
	cache.Set("session-abc", domain.CachedSession{UserID: "user-123", Email: "test@gmail.com"})
	validator := &mockValidator{}
	uc := newSessionUC(validator, cache, &mockRevoker{}, domain.AuthorizationRules{EmailDomains: []string{"gmail.com"}})

	result, err := uc.Execute(context.Background(), "session-abc")

	require.NoError(t, err)
	assert.Equal(t, domain.AccessAuthorized, result.Decision.State)
	assert.Equal(t, "user-123", result.Identity.UserID)
	assert.Equal(t, "session-abc", result.Identity.SessionID)
	assert.False(t, validator.called, "should not call the provider on cache hit")
}

func TestGetSession_CacheMiss_PopulatesCache(t *testing.T) {
	cache := newMockCache()
	validator := &mockValidator{
		identity: &domain.Identity{UserID: "user-456", Email: "new@gmail.com"},
	}
	uc := newSessionUC(validator, cache, &mockRevoker{}, domain.AuthorizationRules{EmailDomains: []string{"gmail.com"}})

	result, err := uc.Execute(context.Background(), "session-xyz")

	require.NoError(t, err)
	assert.Equal(t, domain.AccessAuthorized, result.Decision.State)
	assert.Equal(t, "ory_kratos_session=session-xyz", validator.cookie)

	cached, found := cache.Get("session-xyz")
	require.True(t, found)
	assert.Equal(t, "user-456", cached.UserID)
}

func TestGetSession_UnauthorizedEmail_SignsOutAndEvictsCache(t *testing.T) {
	cache := newMockCache()
	validator := &mockValidator{
		identity: &domain.Identity{UserID: "user-9", Email: "x@evil.com"},
	}
	revoker := &mockRevoker{}
	uc := newSessionUC(validator, cache, revoker, domain.AuthorizationRules{EmailDomains: []string{"gmail.com"}})

	result, err := uc.Execute(context.Background(), "bad-session")

	require.NoError(t, err)
	assert.Equal(t, domain.AccessUnauthorized, result.Decision.State)
	assert.NotEmpty(t, result.Decision.Reason)
	assert.Equal(t, 1, revoker.callCount())

	_, found := cache.Get("bad-session")
	assert.False(t, found, "denied session must not stay cached")
}

func TestGetSession_ExpiredSession_NotAuthenticated(t *testing.T) {
	validator := &mockValidator{err: domain.ErrAuthFailed}
	uc := newSessionUC(validator, newMockCache(), &mockRevoker{}, domain.AuthorizationRules{EmailDomains: []string{"gmail.com"}})

	result, err := uc.Execute(context.Background(), "stale")

	require.NoError(t, err, "a signed-out session is a normal outcome")
	assert.Equal(t, domain.AccessNotAuthenticated, result.Decision.State)
}

func TestGetSession_ProviderUnavailable(t *testing.T) {
	validator := &mockValidator{err: domain.ErrKratosUnavailable}
	uc := newSessionUC(validator, newMockCache(), &mockRevoker{}, domain.AuthorizationRules{EmailDomains: []string{"gmail.com"}})

	result, err := uc.Execute(context.Background(), "any")

	assert.Nil(t, result)
	assert.True(t, errors.Is(err, domain.ErrKratosUnavailable), "provider outage is not a policy decision")
}
