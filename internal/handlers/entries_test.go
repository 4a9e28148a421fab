package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/rmaslov/journal/internal/models"
	"github.com/rmaslov/journal/internal/token"
)

func createEntry(t *testing.T, app *testApp, author *models.User, title string) *models.JournalEntry {
	t.Helper()

	entry := &models.JournalEntry{
		Title:    title,
		Content:  "some content",
		AuthorID: author.ID,
	}
	require.NoError(t, app.db.Create(entry).Error)
	return entry
}

func TestDashboardOwnEntriesOnly(t *testing.T) {
	app := newTestApp(t)
	user := app.createUser(t, "user@example.com", token.RoleUser, false)
	other := app.createUser(t, "other@example.com", token.RoleUser, false)

	createEntry(t, app, user, "mine one")
	createEntry(t, app, user, "mine two")
	createEntry(t, app, other, "not mine")

	rec := app.get(t, "/dashboard", app.sessionCookie(t, user))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User    models.User           `json:"user"`
		Entries []models.JournalEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, user.ID, resp.User.ID)
	require.Len(t, resp.Entries, 2)
	for _, entry := range resp.Entries {
		require.Equal(t, user.ID, entry.AuthorID)
	}
}

func TestCreateEntry(t *testing.T) {
	app := newTestApp(t)
	user := app.createUser(t, "user@example.com", token.RoleUser, false)

	rec := app.postForm(t, "/entries", url.Values{
		"title":   {"first entry"},
		"content": {"dear journal"},
	}, app.sessionCookie(t, user))

	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get(echo.HeaderLocation))

	var entry models.JournalEntry
	require.NoError(t, app.db.Where("title = ?", "first entry").First(&entry).Error)
	require.Equal(t, user.ID, entry.AuthorID)
	require.Equal(t, "dear journal", entry.Content)
}

func TestCreateEntryValidation(t *testing.T) {
	app := newTestApp(t)
	user := app.createUser(t, "user@example.com", token.RoleUser, false)

	rec := app.postForm(t, "/entries", url.Values{
		"title": {"no content"},
	}, app.sessionCookie(t, user))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	app.db.Model(&models.JournalEntry{}).Count(&count)
	require.EqualValues(t, 0, count)
}

func TestEditEntry(t *testing.T) {
	app := newTestApp(t)
	user := app.createUser(t, "user@example.com", token.RoleUser, false)
	entry := createEntry(t, app, user, "before")

	rec := app.postForm(t, "/entries/edit/"+itoa(entry.ID), url.Values{
		"title":   {"after"},
		"content": {"updated content"},
	}, app.sessionCookie(t, user))
	require.Equal(t, http.StatusFound, rec.Code)

	var stored models.JournalEntry
	require.NoError(t, app.db.First(&stored, entry.ID).Error)
	require.Equal(t, "after", stored.Title)
	require.Equal(t, "updated content", stored.Content)
}

func TestEditEntryNotAuthor(t *testing.T) {
	app := newTestApp(t)
	author := app.createUser(t, "author@example.com", token.RoleUser, false)
	intruder := app.createUser(t, "intruder@example.com", token.RoleUser, false)
	entry := createEntry(t, app, author, "private")

	rec := app.postForm(t, "/entries/edit/"+itoa(entry.ID), url.Values{
		"title": {"hijacked"},
	}, app.sessionCookie(t, intruder))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var stored models.JournalEntry
	require.NoError(t, app.db.First(&stored, entry.ID).Error)
	require.Equal(t, "private", stored.Title)
}

func TestEditEntryNotFound(t *testing.T) {
	app := newTestApp(t)
	user := app.createUser(t, "user@example.com", token.RoleUser, false)

	rec := app.postForm(t, "/entries/edit/999", url.Values{
		"title": {"ghost"},
	}, app.sessionCookie(t, user))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteEntry(t *testing.T) {
	app := newTestApp(t)
	user := app.createUser(t, "user@example.com", token.RoleUser, false)
	intruder := app.createUser(t, "intruder@example.com", token.RoleUser, false)
	entry := createEntry(t, app, user, "to delete")

	// someone else cannot delete it
	rec := app.postForm(t, "/entries/delete/"+itoa(entry.ID), nil, app.sessionCookie(t, intruder))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// the author can
	rec = app.postForm(t, "/entries/delete/"+itoa(entry.ID), nil, app.sessionCookie(t, user))
	require.Equal(t, http.StatusFound, rec.Code)

	var count int64
	app.db.Model(&models.JournalEntry{}).Count(&count)
	require.EqualValues(t, 0, count)
}
