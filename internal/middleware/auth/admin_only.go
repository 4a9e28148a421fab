package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rmaslov/journal/internal/token"
)

// RequireAdmin is the role gate. It wraps its handler in RequireLogin, so
// the role check can only run on a request the session gate already
// admitted.
func (g *Gate) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return g.RequireLogin(func(c echo.Context) error {
		user, ok := CurrentUser(c)
		if !ok || user.Role != token.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "not authorized as an admin")
		}
		return next(c)
	})
}
