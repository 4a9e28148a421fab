package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rmaslov/journal/internal/handlers"
	"github.com/rmaslov/journal/internal/hash"
	"github.com/rmaslov/journal/internal/middleware/auth"
	"github.com/rmaslov/journal/internal/models"
	"github.com/rmaslov/journal/internal/mykafka"
	"github.com/rmaslov/journal/internal/token"
	httpserver "github.com/rmaslov/journal/internal/transport/http"
	"github.com/rmaslov/journal/internal/upload"
)

type testApp struct {
	e    *echo.Echo
	db   *gorm.DB
	gate *auth.Gate
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory db")
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.JournalEntry{}))

	gate := &auth.Gate{DB: db, Tokens: token.NewService([]byte("test_secret"))}

	uploads, err := upload.NewSaver(t.TempDir())
	require.NoError(t, err)

	prod := &mykafka.Producer{}

	e := echo.New()
	httpserver.Register(e, &httpserver.Deps{
		Gate:         gate,
		PageHandler:  &handlers.PageHandler{},
		AuthHandler:  &handlers.AuthHandler{DB: db, Gate: gate, Tokens: gate.Tokens, Producer: prod, Uploads: uploads},
		EntryHandler: &handlers.EntryHandler{DB: db, Producer: prod, Uploads: uploads},
		AdminHandler: &handlers.AdminHandler{DB: db, Producer: prod},
		// no elasticsearch here: query construction and the author filter
		// are tested in internal/service/search against a fake node
		SearchHandler: handlers.NewSearchHandler(nil, "entries"),
	})

	return &testApp{e: e, db: db, gate: gate}
}

func (a *testApp) createUser(t *testing.T, email, role string, suspended bool) *models.User {
	t.Helper()

	hashed, err := hash.HashPassword("password")
	require.NoError(t, err)

	user := &models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		IsSuspended:  suspended,
	}
	require.NoError(t, a.db.Create(user).Error)
	return user
}

func (a *testApp) sessionCookie(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()

	signed, exp, err := a.gate.Tokens.Issue(user.ID, user.Role, false)
	require.NoError(t, err)
	return a.gate.TokenCookie(signed, exp)
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
