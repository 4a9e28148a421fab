// Package auth holds the request gates: RequireLogin admits only
// authenticated callers, RequireAdmin additionally demands the admin role,
// and ForwardAuthenticated bounces already-authenticated callers away from
// public pages.
package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/rmaslov/journal/internal/models"
	"github.com/rmaslov/journal/internal/token"
)

// CookieName is the cookie the identity token travels in.
const CookieName = "token"

const userContextKey = "currentUser"

// Gate bundles what every gate needs: the credential store and the token
// service. Secure marks cookies for production deployments.
type Gate struct {
	DB     *gorm.DB
	Tokens *token.Service
	Secure bool
}

// TokenCookie builds the identity cookie. A zero expires produces a
// session-scoped cookie (the non-remember-me case).
func (g *Gate) TokenCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   g.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if !expires.IsZero() {
		cookie.Expires = expires
		cookie.MaxAge = int(time.Until(expires).Seconds())
	}
	return cookie
}

// ClearTokenCookie overwrites the identity cookie with an already-expired
// empty value, which is how logout and stale-token recovery drop it.
func (g *Gate) ClearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func setCurrentUser(c echo.Context, user *models.User) {
	c.Set(userContextKey, user)
}

// CurrentUser returns the user RequireLogin attached to the request. The
// second return is false on requests that never passed the session gate.
func CurrentUser(c echo.Context) (*models.User, bool) {
	user, ok := c.Get(userContextKey).(*models.User)
	return user, ok && user != nil
}

func rawToken(c echo.Context) string {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
