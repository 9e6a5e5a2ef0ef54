package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"docgate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// WatchHandler streams access decisions over Server-Sent Events. The browser
// keeps one connection open per tab; signing out or switching accounts
// elsewhere shows up here as a new decision event.
type WatchHandler struct {
	gate *usecase.AccessGate
}

// NewWatchHandler creates a new watch handler.
func NewWatchHandler(gate *usecase.AccessGate) *WatchHandler {
	return &WatchHandler{gate: gate}
}

// watchEvent is one SSE payload.
type watchEvent struct {
	State  string `json:"state"`
	Reason string `json:"reason,omitempty"`
}

// Handle processes GET /session/watch.
func (h *WatchHandler) Handle(c echo.Context) error {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "session cookie not found")
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	ctx := c.Request().Context()

	for decision := range h.gate.Watch(ctx, cookie.Value) {
		payload, err := json.Marshal(watchEvent{
			State:  decision.State.String(),
			Reason: decision.Reason,
		})
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(resp, "data: %s\n\n", payload); err != nil {
			return nil
		}
		resp.Flush()
	}

	return nil
}
