package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/rmaslov/journal/internal/logging"
	"github.com/rmaslov/journal/internal/middleware/auth"
	"github.com/rmaslov/journal/internal/models"
	"github.com/rmaslov/journal/internal/mykafka"
	"github.com/rmaslov/journal/internal/service/search"
	"github.com/rmaslov/journal/internal/upload"
	"github.com/rmaslov/journal/internal/util"
)

type EntryHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Uploads  *upload.Saver
	ES       *elasticsearch.Client
	Index    string
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *EntryHandler) index(c echo.Context, entry models.JournalEntry) {
	if h.ES == nil {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := search.IndexEntry(ctx, h.ES, h.Index, entry); err != nil {
		logging.FromContext(c.Request().Context()).Warn("entry indexing failed", "entry_id", entry.ID, "error", err)
	}
}

func (h *EntryHandler) Dashboard(c echo.Context) error {
	user, _ := auth.CurrentUser(c)

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.JournalEntry{}).Where("author_id = ?", user.ID).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	var entries []models.JournalEntry
	if err := h.DB.Where("author_id = ?", user.ID).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&entries).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"user":    user,
		"entries": entries,
		"meta": echo.Map{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *EntryHandler) CreateEntry(c echo.Context) error {
	user, _ := auth.CurrentUser(c)

	title := c.FormValue("title")
	content := c.FormValue("content")
	if title == "" || content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title and content are required")
	}

	entry := models.JournalEntry{
		Title:    title,
		Content:  content,
		AuthorID: user.ID,
	}

	if file, err := c.FormFile("photo"); err == nil {
		path, err := h.Uploads.Save(file)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err)
		}
		entry.Photo = path
	}

	if err := h.DB.Create(&entry).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.index(c, entry)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "entry_events", fmt.Sprint(user.ID), map[string]interface{}{
		"type":     "entry_created",
		"entry_id": entry.ID,
		"user_id":  user.ID,
	}); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}

	return c.Redirect(http.StatusFound, "/dashboard")
}

// loadOwned fetches an entry and enforces that the caller wrote it.
func (h *EntryHandler) loadOwned(c echo.Context) (*models.JournalEntry, error) {
	user, _ := auth.CurrentUser(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid entry id")
	}

	var entry models.JournalEntry
	if err := h.DB.First(&entry, id).Error; err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "entry not found")
	}

	if entry.AuthorID != user.ID {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "not authorized")
	}
	return &entry, nil
}

func (h *EntryHandler) EditEntry(c echo.Context) error {
	entry, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	if title := c.FormValue("title"); title != "" {
		entry.Title = title
	}
	if content := c.FormValue("content"); content != "" {
		entry.Content = content
	}

	if err := h.DB.Save(entry).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	h.index(c, *entry)

	return c.Redirect(http.StatusFound, "/dashboard")
}

func (h *EntryHandler) DeleteEntry(c echo.Context) error {
	entry, err := h.loadOwned(c)
	if err != nil {
		return err
	}

	if err := h.DB.Delete(&models.JournalEntry{}, entry.ID).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}

	return c.Redirect(http.StatusFound, "/dashboard")
}
