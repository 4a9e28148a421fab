package handlers

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/rmaslov/journal/internal/flash"
	"github.com/rmaslov/journal/internal/hash"
	"github.com/rmaslov/journal/internal/middleware/auth"
	"github.com/rmaslov/journal/internal/models"
	"github.com/rmaslov/journal/internal/mykafka"
	"github.com/rmaslov/journal/internal/token"
	"github.com/rmaslov/journal/internal/upload"
)

var defaultAvatars = []string{
	"/images/avatars/person1.jpg",
	"/images/avatars/person2.jpg",
	"/images/avatars/person3.jpg",
	"/images/avatars/person4.jpg",
	"/images/avatars/person5.jpg",
}

type AuthHandler struct {
	DB       *gorm.DB
	Gate     *auth.Gate
	Tokens   *token.Service
	Producer *mykafka.Producer
	Uploads  *upload.Saver
}

func (h *AuthHandler) publish(c echo.Context, topic string, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Producer.PublishEvent(ctx, topic, fmt.Sprint(event["user_id"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Name        string `json:"name" form:"name"`
		Email       string `json:"email" form:"email"`
		Password    string `json:"password" form:"password"`
		DateOfBirth string `json:"date_of_birth" form:"date_of_birth"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	if req.Email == "" || req.Password == "" {
		flash.Set(c, flash.ErrorCookie, "Email and password are required.")
		return c.Redirect(http.StatusFound, "/register")
	}

	var existing models.User
	err := h.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		flash.Set(c, flash.ErrorCookie, "A user with that email already exists.")
		return c.Redirect(http.StatusFound, "/register")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	user := models.User{
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hashed,
		Role:           token.RoleUser,
		ProfilePicture: defaultAvatars[rand.Intn(len(defaultAvatars))],
	}
	if req.DateOfBirth != "" {
		if dob, err := time.Parse("2006-01-02", req.DateOfBirth); err == nil {
			user.DateOfBirth = dob
		}
	}

	if err := h.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.publish(c, "user_events", map[string]interface{}{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})

	flash.Set(c, flash.SuccessCookie, "You are now registered and can log in!")
	return c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email      string `json:"email" form:"email"`
		Password   string `json:"password" form:"password"`
		RememberMe bool   `json:"remember_me" form:"remember_me"`
	}

	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	var user models.User
	err := h.DB.Where("email = ?", req.Email).First(&user).Error
	if err != nil || user.IsSuspended {
		flash.Set(c, flash.ErrorCookie, "Invalid credentials or account suspended.")
		return c.Redirect(http.StatusFound, "/login")
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		flash.Set(c, flash.ErrorCookie, "Invalid credentials.")
		return c.Redirect(http.StatusFound, "/login")
	}

	signed, exp, err := h.Tokens.Issue(user.ID, user.Role, req.RememberMe)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	// remember-me pins the cookie to the token lifetime, otherwise the
	// cookie lives only for the browser session
	cookieExp := time.Time{}
	if req.RememberMe {
		cookieExp = exp
	}
	c.SetCookie(h.Gate.TokenCookie(signed, cookieExp))

	h.publish(c, "user_events", map[string]interface{}{
		"type":    "user_logged_in",
		"user_id": user.ID,
		"email":   user.Email,
	})

	if user.Role == token.RoleAdmin {
		return c.Redirect(http.StatusFound, "/admin/dashboard")
	}
	return c.Redirect(http.StatusFound, "/dashboard")
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.Gate.ClearTokenCookie(c)
	return c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
	}

	var stored models.User
	if err := h.DB.First(&stored, user.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	if name := c.FormValue("name"); name != "" {
		stored.Name = name
	}
	if description := c.FormValue("description"); description != "" {
		stored.Description = description
	}

	if file, err := c.FormFile("profile_picture"); err == nil {
		path, err := h.Uploads.Save(file)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err)
		}
		stored.ProfilePicture = path
	}

	if err := h.DB.Save(&stored).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.Redirect(http.StatusFound, "/dashboard")
}
