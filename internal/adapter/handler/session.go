package handler

import (
	"net/http"
	"time"

	"docgate/internal/domain"
	"docgate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// sessionCookieName is the session cookie issued by the identity provider.
const sessionCookieName = "ory_kratos_session"

// SessionHandler handles /session returning the identity and the access
// decision as JSON for the frontend.
type SessionHandler struct {
	uc               *usecase.GetSession
	authSharedSecret string
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(uc *usecase.GetSession, authSharedSecret string) *SessionHandler {
	return &SessionHandler{uc: uc, authSharedSecret: authSharedSecret}
}

// sessionUser represents the user object in the response.
type sessionUser struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// sessionResponse represents the JSON response structure.
type sessionResponse struct {
	OK     bool         `json:"ok"`
	State  string       `json:"state"`
	Reason string       `json:"reason,omitempty"`
	User   *sessionUser `json:"user,omitempty"`
}

// Handle processes the /session endpoint. A missing session answers 401 with
// state not_authenticated and no reason; a denied identity answers 403 with
// the denial reason the login page shows.
func (h *SessionHandler) Handle(c echo.Context) error {
	cookieValue := ""
	if cookie, err := c.Cookie(sessionCookieName); err == nil {
		cookieValue = cookie.Value
	}

	result, err := h.uc.Execute(c.Request().Context(), cookieValue)
	if err != nil {
		return mapDomainError(err)
	}

	switch result.Decision.State {
	case domain.AccessAuthorized:
		// Legacy: shared secret header for services behind the proxy
		if h.authSharedSecret != "" {
			c.Response().Header().Set("X-Docgate-Shared-Secret", h.authSharedSecret)
		}
		return c.JSON(http.StatusOK, sessionResponse{
			OK:    true,
			State: result.Decision.State.String(),
			User: &sessionUser{
				ID:          result.Identity.UserID,
				Email:       result.Identity.Email,
				DisplayName: result.Identity.DisplayName,
				CreatedAt:   result.CreatedAt,
			},
		})

	case domain.AccessUnauthorized:
		return c.JSON(http.StatusForbidden, sessionResponse{
			OK:     false,
			State:  result.Decision.State.String(),
			Reason: result.Decision.Reason,
		})

	default:
		return c.JSON(http.StatusUnauthorized, sessionResponse{
			OK:    false,
			State: result.Decision.State.String(),
		})
	}
}
