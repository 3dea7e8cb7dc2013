package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireFresh returns a middleware function that enforces that the
// authenticated access token was minted directly by a password login.
// Tokens obtained through the refresh flow carry fresh=false and are
// rejected with 401 fresh_token_required.  It assumes JWTAuth has already
// run and stored the freshness flag in the context under the key "fresh".
func RequireFresh() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Retrieve the flag from context.  It should have been stored
			// by JWTAuth middleware as a bool.  If not present or of wrong
			// type, treat as not fresh and fail closed.
			fresh, ok := c.Get("fresh").(bool)
			if !ok || !fresh {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": CodeFreshRequired})
			}
			return next(c)
		}
	}
}
