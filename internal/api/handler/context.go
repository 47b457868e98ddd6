package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carthage-creance/recovery-api/internal/core/domain"
)

// currentUser rebuilds the acting user from the claims injected by the Auth
// middleware. The authority must resolve to a known role; a structurally
// valid token carrying an unknown role is rejected with 401 before any
// service call.
func currentUser(c echo.Context) (*domain.User, error) {
	userID, _ := c.Get("user_id").(string)
	authority, _ := c.Get("authority").(string)
	if userID == "" || authority == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	role, ok := domain.RoleFromAuthority(authority)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "unknown authority")
	}

	username, _ := c.Get("username").(string)
	return &domain.User{ID: userID, Username: username, Role: role}, nil
}
