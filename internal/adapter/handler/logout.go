package handler

import (
	"net/http"
	"time"

	"docgate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// LogoutHandler handles POST /logout: the session is revoked at the identity
// provider and the cookie is cleared from the browser.
type LogoutHandler struct {
	uc *usecase.SignOut
}

// NewLogoutHandler creates a new logout handler.
func NewLogoutHandler(uc *usecase.SignOut) *LogoutHandler {
	return &LogoutHandler{uc: uc}
}

// Handle processes the /logout endpoint.
func (h *LogoutHandler) Handle(c echo.Context) error {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		// Nothing to revoke; still clear the cookie.
		h.expireCookie(c)
		return c.JSON(http.StatusOK, map[string]bool{"ok": true})
	}

	if err := h.uc.Execute(c.Request().Context(), cookie.Value); err != nil {
		return mapDomainError(err)
	}

	h.expireCookie(c)
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (h *LogoutHandler) expireCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
