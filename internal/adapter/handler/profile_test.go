package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"docgate/internal/domain"
	infratoken "docgate/internal/infrastructure/token"
	"docgate/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileHandler(validator *mockValidator, store *mockProfileStore) (*ProfileHandler, *infratoken.HMACCSRFGenerator) {
	validateUC := usecase.NewValidateAccess(validator, newMockCache(), allowExampleRules(), slog.Default())
	profileUC := usecase.NewProfile(store, slog.Default())
	csrf := infratoken.NewHMACCSRFGenerator("test-csrf-secret")
	return NewProfileHandler(validateUC, profileUC, csrf), csrf
}

func profileRequest(method, cookieValue, csrfToken, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, "/profile", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, "/profile", nil)
	}
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: cookieValue})
	}
	if csrfToken != "" {
		req.Header.Set(csrfHeader, csrfToken)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestProfileHandler_GetCreatesOnFirstAccess(t *testing.T) {
	validator := &mockValidator{identity: &domain.Identity{
		UserID:      "user-1",
		Email:       "jane@example.com",
		DisplayName: "Jane Doe",
	}}
	store := newMockProfileStore()
	h, _ := newProfileHandler(validator, store)

	c, rec := profileRequest(http.MethodGet, "sess-abc", "", "")
	require.NoError(t, h.HandleGet(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var profile domain.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "user-1", profile.ID)
	assert.Equal(t, "jane@example.com", profile.Email)
	assert.Equal(t, "Jane Doe", profile.FullName)

	// Persisted, not just echoed back
	stored, err := store.Get(c.Request().Context(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", stored.FullName)
}

func TestProfileHandler_UpdateWithValidCSRF(t *testing.T) {
	validator := &mockValidator{identity: &domain.Identity{
		UserID: "user-1",
		Email:  "jane@example.com",
	}}
	store := newMockProfileStore()
	h, csrf := newProfileHandler(validator, store)

	// ValidateAccess binds the session ID to the cookie value
	token, err := csrf.Generate("sess-abc")
	require.NoError(t, err)

	c, rec := profileRequest(http.MethodPut, "sess-abc", token, `{"full_name":"Jane Q. Doe"}`)
	require.NoError(t, h.HandleUpdate(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var profile domain.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "Jane Q. Doe", profile.FullName)
	assert.Equal(t, "jane@example.com", profile.Email)
}

func TestProfileHandler_UpdateMissingCSRF(t *testing.T) {
	validator := &mockValidator{identity: &domain.Identity{UserID: "user-1", Email: "jane@example.com"}}
	h, _ := newProfileHandler(validator, newMockProfileStore())

	c, _ := profileRequest(http.MethodPut, "sess-abc", "", `{"full_name":"X"}`)
	err := h.HandleUpdate(c)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestProfileHandler_UpdateWrongCSRF(t *testing.T) {
	validator := &mockValidator{identity: &domain.Identity{UserID: "user-1", Email: "jane@example.com"}}
	h, csrf := newProfileHandler(validator, newMockProfileStore())

	// Token minted for a different session must not pass
	token, err := csrf.Generate("sess-other")
	require.NoError(t, err)

	c, _ := profileRequest(http.MethodPut, "sess-abc", token, `{"full_name":"X"}`)
	handleErr := h.HandleUpdate(c)

	require.Error(t, handleErr)
	httpErr, ok := handleErr.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestProfileHandler_UpdateEmptyName(t *testing.T) {
	validator := &mockValidator{identity: &domain.Identity{UserID: "user-1", Email: "jane@example.com"}}
	h, csrf := newProfileHandler(validator, newMockProfileStore())

	token, err := csrf.Generate("sess-abc")
	require.NoError(t, err)

	c, _ := profileRequest(http.MethodPut, "sess-abc", token, `{"full_name":""}`)
	handleErr := h.HandleUpdate(c)

	require.Error(t, handleErr)
	httpErr, ok := handleErr.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestProfileHandler_NoCookie(t *testing.T) {
	h, _ := newProfileHandler(&mockValidator{}, newMockProfileStore())

	c, _ := profileRequest(http.MethodGet, "", "", "")
	err := h.HandleGet(c)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
