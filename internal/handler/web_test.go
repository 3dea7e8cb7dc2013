package handler_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/habit-tracker/internal/config"
	"github.com/iliyamo/habit-tracker/internal/handler"
	"github.com/iliyamo/habit-tracker/internal/middleware"
	"github.com/iliyamo/habit-tracker/internal/repository"
	"github.com/iliyamo/habit-tracker/internal/router"
	"github.com/iliyamo/habit-tracker/internal/validator"
)

func newWebApp(t *testing.T) (*echo.Echo, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	cfg := config.Config{JWTSecret: testSecret, SessionTTLHrs: 24, BcryptCost: bcrypt.MinCost}
	users := repository.NewUserRepo(db)
	habits := repository.NewHabitRepo(db)
	sessions := repository.NewSessionRepo(db)

	e := echo.New()
	e.Validator = validator.New()
	renderer, err := handler.NewTemplateRenderer("../../web/templates/*.html")
	require.NoError(t, err)
	e.Renderer = renderer

	router.RegisterWeb(e, handler.NewWebHandler(cfg, users, habits, sessions), sessions)
	return e, mock, func() { db.Close() }
}

func errDuplicate() error {
	return errors.New("Error 1062 (23000): Duplicate entry 'alice' for key 'users.username'")
}

func postForm(e *echo.Echo, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWebRegisterDuplicateShowsError(t *testing.T) {
	e, mock, cleanup := newWebApp(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("alice", sqlmock.AnyArg()).
		WillReturnError(errDuplicate())

	rec := postForm(e, "/register_user", url.Values{"username": {"alice"}, "pwd": {"secret1"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")
}

func TestWebLoginOpensSessionAndRedirects(t *testing.T) {
	e, mock, cleanup := newWebApp(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM users WHERE username=").
		WithArgs("alice").
		WillReturnRows(userRow(1, "alice", bcryptHash(t, "secret1")))
	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(uint64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rec := postForm(e, "/login_user", url.Values{"username": {"alice"}, "pwd": {"secret1"}})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))

	cookie := rec.Header().Get(echo.HeaderSetCookie)
	assert.Contains(t, cookie, middleware.SessionCookie+"=")
	assert.Contains(t, cookie, "HttpOnly")
}

func TestWebLoginBadPasswordStaysGeneric(t *testing.T) {
	e, mock, cleanup := newWebApp(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM users WHERE username=").
		WithArgs("alice").
		WillReturnRows(userRow(1, "alice", bcryptHash(t, "secret1")))

	rec := postForm(e, "/login_user", url.Values{"username": {"alice"}, "pwd": {"wrong66"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials.")
	// no session row was created, no cookie was set
	assert.Empty(t, rec.Header().Get(echo.HeaderSetCookie))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebLogoutClearsCookie(t *testing.T) {
	e, mock, cleanup := newWebApp(t)
	defer cleanup()

	mock.ExpectExec("DELETE FROM sessions WHERE token_hash=").
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "raw"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login_user", rec.Header().Get("Location"))
	assert.Contains(t, rec.Header().Get(echo.HeaderSetCookie), middleware.SessionCookie+"=;")
}
