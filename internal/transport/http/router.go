package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/rmaslov/journal/internal/handlers"
	"github.com/rmaslov/journal/internal/middleware/auth"
)

type Deps struct {
	Gate          *auth.Gate
	PageHandler   *handlers.PageHandler
	AuthHandler   *handlers.AuthHandler
	EntryHandler  *handlers.EntryHandler
	AdminHandler  *handlers.AdminHandler
	SearchHandler *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	// public pages bounce already-authenticated callers to their dashboard
	e.GET("/", d.PageHandler.Landing, d.Gate.ForwardAuthenticated)
	e.GET("/login", d.PageHandler.LoginPage, d.Gate.ForwardAuthenticated)
	e.GET("/register", d.PageHandler.RegisterPage, d.Gate.ForwardAuthenticated)

	e.POST("/register", d.AuthHandler.Register)
	e.POST("/login", d.AuthHandler.Login)
	e.GET("/logout", d.AuthHandler.Logout)
	e.POST("/profile", d.AuthHandler.UpdateProfile, d.Gate.RequireLogin)

	e.GET("/dashboard", d.EntryHandler.Dashboard, d.Gate.RequireLogin)
	e.POST("/entries", d.EntryHandler.CreateEntry, d.Gate.RequireLogin)
	e.POST("/entries/edit/:id", d.EntryHandler.EditEntry, d.Gate.RequireLogin)
	e.POST("/entries/delete/:id", d.EntryHandler.DeleteEntry, d.Gate.RequireLogin)

	e.GET("/search", d.SearchHandler.Search, d.Gate.RequireLogin)

	admin := e.Group("/admin", d.Gate.RequireAdmin)
	admin.GET("/dashboard", d.AdminHandler.Dashboard)
	admin.POST("/users/suspend/:id", d.AdminHandler.SuspendUser)
	admin.POST("/users/delete/:id", d.AdminHandler.DeleteUser)

	e.Static("/uploads", "public/uploads")
	e.Static("/images", "public/images")
}
