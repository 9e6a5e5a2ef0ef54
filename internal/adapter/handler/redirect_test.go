package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"docgate/internal/domain"
	"docgate/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedirectHandler(validator *mockValidator, minter *mockMinter, allowed []string) *RedirectHandler {
	validateUC := usecase.NewValidateAccess(validator, newMockCache(), allowExampleRules(), slog.Default())
	redirectUC := usecase.NewRedirectDocs(domain.NewAllowedDomainList(allowed), minter, slog.Default())
	return NewRedirectHandler(validateUC, redirectUC, "https://docs.example.com", "docs")
}

func redirectRequest(cookieValue, query string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/docs/redirect"+query, nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRedirectHandler_DefaultTarget(t *testing.T) {
	validator := &mockValidator{identity: &domain.Identity{UserID: "user-1", Email: "jane@example.com"}}
	minter := &mockMinter{token: "abc.def.ghi"}
	h := newRedirectHandler(validator, minter, []string{"docs.example.com"})

	c, rec := redirectRequest("sess-abc", "")
	require.NoError(t, h.Handle(c))

	assert.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "docs.example.com", location.Host)
	assert.Equal(t, "abc.def.ghi", location.Query().Get("token"))
}

func TestRedirectHandler_ExplicitTarget(t *testing.T) {
	validator := &mockValidator{identity: &domain.Identity{UserID: "user-1", Email: "jane@example.com"}}
	minter := &mockMinter{token: "tok"}
	h := newRedirectHandler(validator, minter, []string{"example.com"})

	c, rec := redirectRequest("sess-abc", "?target=https%3A%2F%2Fguides.example.com%2Fstart&audience=guides")
	require.NoError(t, h.Handle(c))

	assert.Equal(t, http.StatusFound, rec.Code)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "guides.example.com", location.Host)
	assert.Equal(t, "/start", location.Path)
	assert.Equal(t, "tok", location.Query().Get("token"))
}

func TestRedirectHandler_DisallowedTarget(t *testing.T) {
	validator := &mockValidator{identity: &domain.Identity{UserID: "user-1", Email: "jane@example.com"}}
	minter := &mockMinter{token: "tok"}
	h := newRedirectHandler(validator, minter, []string{"docs.example.com"})

	c, _ := redirectRequest("sess-abc", "?target=https%3A%2F%2Fevil.com")
	err := h.Handle(c)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)

	// No token minted for a rejected destination
	assert.Equal(t, 0, minter.callCount())
}

func TestRedirectHandler_NoCookie(t *testing.T) {
	h := newRedirectHandler(&mockValidator{}, &mockMinter{token: "tok"}, []string{"docs.example.com"})

	c, _ := redirectRequest("", "")
	err := h.Handle(c)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestRedirectHandler_UnauthorizedEmailNeverMints(t *testing.T) {
	validator := &mockValidator{identity: &domain.Identity{UserID: "user-2", Email: "mallory@evil.com"}}
	minter := &mockMinter{token: "tok"}
	h := newRedirectHandler(validator, minter, []string{"docs.example.com"})

	c, _ := redirectRequest("sess-bad", "")
	err := h.Handle(c)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
	assert.Equal(t, 0, minter.callCount())
}

func TestRedirectHandler_MintFailure(t *testing.T) {
	validator := &mockValidator{identity: &domain.Identity{UserID: "user-1", Email: "jane@example.com"}}
	minter := &mockMinter{err: domain.ErrAudienceUnknown}
	h := newRedirectHandler(validator, minter, []string{"docs.example.com"})

	c, _ := redirectRequest("sess-abc", "")
	err := h.Handle(c)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, httpErr.Code)
	// A failed mint is reported, never retried here
	assert.Equal(t, 1, minter.callCount())
}
