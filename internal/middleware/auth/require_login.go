package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rmaslov/journal/internal/logging"
	"github.com/rmaslov/journal/internal/models"
)

// RequireLogin is the session gate. A missing or empty cookie redirects to
// the login page; a cookie that fails verification is a 401. On success the
// user row is loaded by the id the token carries, the password hash is
// blanked, and the user is attached to the request.
func (g *Gate) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := rawToken(c)
		if raw == "" {
			return c.Redirect(http.StatusFound, "/login")
		}

		claims, err := g.Tokens.Verify(raw)
		if err != nil {
			logging.FromContext(c.Request().Context()).Warn("token verification failed", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, token failed")
		}

		var user models.User
		if err := g.DB.First(&user, claims.UserID).Error; err != nil {
			// a valid token for a vanished user looks exactly like no token
			logging.FromContext(c.Request().Context()).Warn("user lookup failed", "user_id", claims.UserID, "error", err)
			g.ClearTokenCookie(c)
			return c.Redirect(http.StatusFound, "/login")
		}
		user.PasswordHash = ""

		setCurrentUser(c, &user)
		return next(c)
	}
}
