package middleware

// session.go gates the server-rendered dashboard.  Unlike the API, the UI
// identifies users with a DB-backed session referenced by an HttpOnly
// cookie; a missing or dead session redirects the browser to the login
// page instead of answering with JSON.

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-tracker/internal/repository"
	"github.com/iliyamo/habit-tracker/internal/utils"
)

// SessionCookie is the name of the cookie carrying the raw session token.
const SessionCookie = "habit_session"

// SessionAuth returns a middleware that resolves the session cookie into a
// user id.  The cookie holds the raw random token; only its SHA-256 hash
// is looked up in the sessions table.  On success the owning user id is
// stored in the context under "user_id", mirroring what JWTAuth does for
// API routes so habit handlers can be shared between the two surfaces.
func SessionAuth(sessions *repository.SessionRepo, loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return c.Redirect(http.StatusFound, loginPath)
			}
			userID, err := sessions.Resolve(c.Request().Context(), utils.HashSessionRaw(cookie.Value))
			if err != nil {
				// expired, revoked or unknown session: back to login
				return c.Redirect(http.StatusFound, loginPath)
			}
			c.Set("user_id", userID)
			return next(c)
		}
	}
}
