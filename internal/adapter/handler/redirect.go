package handler

import (
	"net/http"

	"docgate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// RedirectHandler handles /docs/redirect: it validates the session, checks
// the target against the domain allowlist, mints a short-lived token, and
// answers with a 302 to the documentation site. The target and audience
// default to the configured documentation site when the query omits them.
type RedirectHandler struct {
	validate        *usecase.ValidateAccess
	redirect        *usecase.RedirectDocs
	defaultTarget   string
	defaultAudience string
}

// NewRedirectHandler creates a new redirect handler.
func NewRedirectHandler(validate *usecase.ValidateAccess, redirect *usecase.RedirectDocs, defaultTarget, defaultAudience string) *RedirectHandler {
	return &RedirectHandler{
		validate:        validate,
		redirect:        redirect,
		defaultTarget:   defaultTarget,
		defaultAudience: defaultAudience,
	}
}

// Handle processes the /docs/redirect endpoint.
func (h *RedirectHandler) Handle(c echo.Context) error {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "session cookie not found")
	}

	identity, err := h.validate.Execute(c.Request().Context(), cookie.Value)
	if err != nil {
		return mapDomainError(err)
	}

	target := c.QueryParam("target")
	if target == "" {
		target = h.defaultTarget
	}
	audience := c.QueryParam("audience")
	if audience == "" {
		audience = h.defaultAudience
	}

	location, err := h.redirect.Execute(c.Request().Context(), identity, target, audience)
	if err != nil {
		return mapDomainError(err)
	}

	return c.Redirect(http.StatusFound, location)
}
