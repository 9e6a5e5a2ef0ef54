package handler

import (
	"crypto/subtle"
	"net/http"

	"docgate/internal/domain"
	"docgate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// csrfHeader carries the CSRF token on state-changing profile requests.
const csrfHeader = "X-CSRF-Token"

// ProfileHandler handles GET and PUT on /profile. Updates are CSRF-protected:
// the token is session-bound, so recomputing it for the current session and
// comparing is enough.
type ProfileHandler struct {
	validate *usecase.ValidateAccess
	profile  *usecase.Profile
	csrf     domain.CSRFTokenGenerator
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(validate *usecase.ValidateAccess, profile *usecase.Profile, csrf domain.CSRFTokenGenerator) *ProfileHandler {
	return &ProfileHandler{validate: validate, profile: profile, csrf: csrf}
}

// updateProfileRequest is the PUT body.
type updateProfileRequest struct {
	FullName string `json:"full_name"`
}

// HandleGet processes GET /profile.
func (h *ProfileHandler) HandleGet(c echo.Context) error {
	identity, err := h.authenticate(c)
	if err != nil {
		return err
	}

	profile, err := h.profile.Get(c.Request().Context(), identity)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// HandleUpdate processes PUT /profile.
func (h *ProfileHandler) HandleUpdate(c echo.Context) error {
	identity, err := h.authenticate(c)
	if err != nil {
		return err
	}

	if err := h.checkCSRF(c, identity.SessionID); err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.FullName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "full_name is required")
	}

	profile, err := h.profile.Update(c.Request().Context(), identity, req.FullName)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) authenticate(c echo.Context) (*domain.Identity, error) {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "session cookie not found")
	}

	identity, err := h.validate.Execute(c.Request().Context(), cookie.Value)
	if err != nil {
		return nil, mapDomainError(err)
	}
	return identity, nil
}

func (h *ProfileHandler) checkCSRF(c echo.Context, sessionID string) error {
	presented := c.Request().Header.Get(csrfHeader)
	if presented == "" {
		return echo.NewHTTPError(http.StatusForbidden, "missing CSRF token")
	}

	expected, err := h.csrf.Generate(sessionID)
	if err != nil {
		return mapDomainError(err)
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) != 1 {
		return echo.NewHTTPError(http.StatusForbidden, "invalid CSRF token")
	}
	return nil
}
