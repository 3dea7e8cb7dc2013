package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/habit-tracker/internal/auth"  // revocation blocklist
	"github.com/iliyamo/habit-tracker/internal/utils" // token parsing and typed errors
)

// Machine-readable error codes returned on authentication failures.  Each
// failure mode gets its own code so API clients can react precisely (e.g.
// trigger a refresh on token_expired but a re-login on token_revoked).
const (
	CodeMissingToken  = "authorization_required"
	CodeInvalidToken  = "invalid_token"
	CodeExpiredToken  = "token_expired"
	CodeRevokedToken  = "token_revoked"
	CodeFreshRequired = "fresh_token_required"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and injects its claims into the request context.  The provided secret
// must match the one used when issuing tokens, and the blocklist is
// consulted on every request before the claims are trusted.  Handlers
// behind this middleware can read `c.Get("user_id")` (uint64),
// `c.Get("jti")`, `c.Get("fresh")` and `c.Get("token_exp")`.
//
// Verification order matters: signature and expiry first, then the token
// type, then revocation.  Every failure is a 401 with a distinct error
// code; nothing about the failure reveals whether a user exists.
func JWTAuth(secret string, blocklist *auth.Blocklist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Read the Authorization header.  A valid header starts with
			// "Bearer " followed by the JWT.  If it doesn't, the request
			// carries no credential at all.
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": CodeMissingToken})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := utils.ParseToken(secret, raw)
			if err != nil {
				if err == utils.ErrTokenExpired {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": CodeExpiredToken})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": CodeInvalidToken})
			}
			// A refresh token must never pass as an access credential.
			if claims.Type != utils.TokenTypeAccess {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": CodeInvalidToken})
			}
			// Revocation check runs on every request; a logged-out token is
			// rejected even before its natural expiry.
			if blocklist.IsRevoked(c.Request().Context(), claims.JTI) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": CodeRevokedToken})
			}

			c.Set("user_id", claims.UserID)
			c.Set("jti", claims.JTI)
			c.Set("fresh", claims.Fresh)
			c.Set("token_exp", claims.Exp)
			return next(c)
		}
	}
}
