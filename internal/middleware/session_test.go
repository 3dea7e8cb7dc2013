package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/habit-tracker/internal/repository"
	"github.com/iliyamo/habit-tracker/internal/utils"
)

func sessionApp(t *testing.T) (*echo.Echo, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	e := echo.New()
	g := e.Group("/dashboard")
	g.Use(SessionAuth(repository.NewSessionRepo(db), "/login_user"))
	g.GET("", func(c echo.Context) error {
		uid, _ := c.Get("user_id").(uint64)
		return c.JSON(http.StatusOK, echo.Map{"user_id": uid})
	})
	return e, mock, func() { db.Close() }
}

func TestSessionAuthRedirectsWithoutCookie(t *testing.T) {
	e, _, cleanup := sessionApp(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login_user", rec.Header().Get("Location"))
}

func TestSessionAuthResolvesCookie(t *testing.T) {
	e, mock, cleanup := sessionApp(t)
	defer cleanup()

	raw := "raw-session-token"
	mock.ExpectQuery("SELECT user_id, expires_at FROM sessions WHERE token_hash=").
		WithArgs(utils.HashSessionRaw(raw)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).
			AddRow(7, time.Now().Add(time.Hour)))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: raw})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":7`)
}

func TestSessionAuthRedirectsOnUnknownSession(t *testing.T) {
	e, mock, cleanup := sessionApp(t)
	defer cleanup()

	mock.ExpectQuery("SELECT user_id, expires_at FROM sessions WHERE token_hash=").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "stale"})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login_user", rec.Header().Get("Location"))
}
