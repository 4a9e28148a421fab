package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rmaslov/journal/internal/flash"
)

// PageHandler serves the public pages the forwarding gate fronts. Rendering
// is deliberately minimal: page name plus any pending flash messages.
type PageHandler struct{}

func (h *PageHandler) render(c echo.Context, page string) error {
	resp := echo.Map{"page": page}
	if msg := flash.Consume(c, flash.ErrorCookie); msg != "" {
		resp["error_msg"] = msg
	}
	if msg := flash.Consume(c, flash.SuccessCookie); msg != "" {
		resp["success_msg"] = msg
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *PageHandler) Landing(c echo.Context) error {
	return h.render(c, "index")
}

func (h *PageHandler) LoginPage(c echo.Context) error {
	return h.render(c, "login")
}

func (h *PageHandler) RegisterPage(c echo.Context) error {
	return h.render(c, "register")
}
