package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rmaslov/journal/internal/token"
)

// ForwardAuthenticated keeps logged-in callers off public pages (landing,
// login, register). Guests pass through untouched. A valid token redirects
// to the role-appropriate dashboard; an invalid one is dropped and the
// caller continues as a guest, never as an error.
func (g *Gate) ForwardAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := rawToken(c)
		if raw == "" {
			return next(c)
		}

		claims, err := g.Tokens.Verify(raw)
		if err != nil {
			g.ClearTokenCookie(c)
			return next(c)
		}

		if claims.Role == token.RoleAdmin {
			return c.Redirect(http.StatusFound, "/admin/dashboard")
		}
		return c.Redirect(http.StatusFound, "/dashboard")
	}
}
