package handler

import (
	"context"  // provides context with cancellation for DB calls
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls and event timestamps

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/iliyamo/habit-tracker/internal/auth"       // revocation blocklist
	"github.com/iliyamo/habit-tracker/internal/config"     // app configuration
	"github.com/iliyamo/habit-tracker/internal/middleware" // auth error codes
	"github.com/iliyamo/habit-tracker/internal/queue"      // domain event payloads
	"github.com/iliyamo/habit-tracker/internal/repository" // DB repositories
	event_publisher "github.com/iliyamo/habit-tracker/internal/service"
	"github.com/iliyamo/habit-tracker/internal/utils" // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for the token-authenticated API's auth
// endpoints: register, login, refresh and logout.
type AuthHandler struct {
	Cfg       config.Config
	Users     *repository.UserRepo
	Blocklist *auth.Blocklist
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, b *auth.Blocklist) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Blocklist: b}
}

// ----- DTOs -----

type credentialsReq struct {
	Username string `json:"username" validate:"required,min=4,max=20"`
	Password string `json:"password" validate:"required,min=4,max=20"`
}

type userResp struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

type tokenPairResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register creates a new user account.  The password is bcrypt-hashed by
// the repository; a duplicate username surfaces as its own error code so
// clients can tell it apart from a malformed request.
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password must be 4-20 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Username, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrUsernameExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate_username"})
		}
		c.Logger().Errorf("register: create user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	_ = event_publisher.PublishUserRegistered(ctx, queue.UserRegisteredEvent{
		UserID:       uid,
		Username:     strings.TrimSpace(req.Username),
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, userResp{ID: uid, Username: strings.TrimSpace(req.Username)})
}

// Login verifies credentials and returns a fresh access token plus a
// refresh token.  The 401 message never says which of the two fields was
// wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid_credentials"})
		}
		c.Logger().Errorf("login: query user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid_credentials"})
	}

	// Only a password login mints a fresh access token.
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, true, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.JWTSecret, u.ID, h.Cfg.RefreshTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}

	return c.JSON(http.StatusOK, tokenPairResp{
		AccessToken:  access.Token,
		RefreshToken: refresh.Token,
	})
}

// Refresh exchanges a refresh token (presented as the bearer credential)
// for a new non-fresh access token.  The refresh token is single-use: its
// jti is revoked the moment the exchange succeeds, so replaying it fails
// with token_revoked.
func (h *AuthHandler) Refresh(c echo.Context) error {
	header := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": middleware.CodeMissingToken})
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	claims, err := utils.ParseToken(h.Cfg.JWTSecret, raw)
	if err != nil {
		if err == utils.ErrTokenExpired {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": middleware.CodeExpiredToken})
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": middleware.CodeInvalidToken})
	}
	// An access token is not a refresh credential.
	if claims.Type != utils.TokenTypeRefresh {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": middleware.CodeInvalidToken})
	}
	if h.Blocklist.IsRevoked(c.Request().Context(), claims.JTI) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": middleware.CodeRevokedToken})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, claims.UserID, false, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	// Revoke the used refresh token; its blocklist entry expires together
	// with the token itself.
	_ = h.Blocklist.Revoke(c.Request().Context(), claims.JTI, claims.Exp)

	return c.JSON(http.StatusOK, echo.Map{"access_token": access.Token})
}

// Logout revokes the presented access token.  It runs behind JWTAuth, so
// the jti and expiry are already validated and sitting in the context.
// Logging out twice is not an error: the second token is simply rejected
// by the middleware as revoked.
func (h *AuthHandler) Logout(c echo.Context) error {
	jti, _ := c.Get("jti").(string)
	exp, _ := c.Get("token_exp").(time.Time)
	if jti == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": middleware.CodeMissingToken})
	}
	_ = h.Blocklist.Revoke(c.Request().Context(), jti, exp)
	return c.JSON(http.StatusOK, echo.Map{"message": "successfully logged out"})
}
