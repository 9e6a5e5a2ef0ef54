package handler

import (
	"net/http"

	"docgate/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AccessRequestHandler handles POST /access-request from users who are not on
// the allowlist yet. The endpoint is anonymous; the route is rate-limited.
type AccessRequestHandler struct {
	uc *usecase.RequestAccess
}

// NewAccessRequestHandler creates a new access request handler.
func NewAccessRequestHandler(uc *usecase.RequestAccess) *AccessRequestHandler {
	return &AccessRequestHandler{uc: uc}
}

// accessRequestBody is the POST body.
type accessRequestBody struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Company  string `json:"company"`
	Reason   string `json:"reason"`
}

// accessRequestResponse confirms the stored request.
type accessRequestResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Handle processes the /access-request endpoint.
func (h *AccessRequestHandler) Handle(c echo.Context) error {
	var body accessRequestBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	req, err := h.uc.Execute(c.Request().Context(), body.FullName, body.Email, body.Company, body.Reason)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusAccepted, accessRequestResponse{
		ID:     req.ID,
		Status: req.Status,
	})
}
