package flash

import (
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	SuccessCookie = "flash_success"
	ErrorCookie   = "flash_error"
)

// Set stores a one-shot message in a short-lived cookie. The next page
// render consumes and clears it.
func Set(c echo.Context, name, message string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(message),
		Path:     "/",
		Expires:  time.Now().Add(5 * time.Minute),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Consume returns the pending message for name, clearing the cookie.
// Empty string means no message was pending.
func Consume(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil || cookie.Value == "" {
		return ""
	}

	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}
