package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/rmaslov/journal/internal/models"
	"github.com/rmaslov/journal/internal/mykafka"
)

type AdminHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type entryWithAuthor struct {
	models.JournalEntry
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
}

func (h *AdminHandler) publish(c echo.Context, event map[string]interface{}) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["user_id"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	var users []models.User
	if err := h.DB.Order("id ASC").Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}

	authors := make(map[uint]models.User, len(users))
	for _, u := range users {
		authors[u.ID] = u
	}

	var entries []models.JournalEntry
	if err := h.DB.Order("created_at DESC").Find(&entries).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	annotated := make([]entryWithAuthor, len(entries))
	for i, e := range entries {
		annotated[i] = entryWithAuthor{
			JournalEntry: e,
			AuthorName:   authors[e.AuthorID].Name,
			AuthorEmail:  authors[e.AuthorID].Email,
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users":   users,
		"entries": annotated,
	})
}

func (h *AdminHandler) SuspendUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err == nil {
		user.IsSuspended = !user.IsSuspended
		if err := h.DB.Save(&user).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err)
		}

		h.publish(c, map[string]interface{}{
			"type":      "user_suspended",
			"user_id":   user.ID,
			"suspended": user.IsSuspended,
		})
	}

	return c.Redirect(http.StatusFound, "/admin/dashboard")
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	// entries first so no orphans survive the user
	if err := h.DB.Where("author_id = ?", id).Delete(&models.JournalEntry{}).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	if err := h.DB.Delete(&models.User{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.publish(c, map[string]interface{}{
		"type":    "user_deleted",
		"user_id": id,
	})

	return c.Redirect(http.StatusFound, "/admin/dashboard")
}
