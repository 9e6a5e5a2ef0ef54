package handler

import (
	"net/http"

	"docgate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ValidateHandler handles /validate for nginx auth_request. The answer is
// status-only: 200 with identity headers, 401 for no session, 403 for a
// session whose email fails the allowlist.
type ValidateHandler struct {
	uc *usecase.ValidateAccess
}

// NewValidateHandler creates a new validate handler.
func NewValidateHandler(uc *usecase.ValidateAccess) *ValidateHandler {
	return &ValidateHandler{uc: uc}
}

// Handle processes the /validate endpoint.
func (h *ValidateHandler) Handle(c echo.Context) error {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "session cookie not found")
	}

	identity, err := h.uc.Execute(c.Request().Context(), cookie.Value)
	if err != nil {
		return mapDomainError(err)
	}

	c.Response().Header().Set("X-Docgate-User-Id", identity.UserID)
	c.Response().Header().Set("X-Docgate-User-Email", identity.Email)
	return c.NoContent(http.StatusOK)
}
