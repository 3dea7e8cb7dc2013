package router // package router defines how HTTP routes are registered for the application

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/habit-tracker/internal/auth"       // blocklist consulted by the JWT middleware
	"github.com/iliyamo/habit-tracker/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/habit-tracker/internal/middleware" // import middleware for JWT and session authentication
	"github.com/iliyamo/habit-tracker/internal/repository" // session repository backing the UI gate
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the REST surface.  Unauthenticated operations
// (register, login, refresh, user lookup) sit directly on the Echo
// instance; habit CRUD and logout run behind the JWT middleware with the
// blocklist consulted on every request.
func RegisterAPI(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler, hb *handler.HabitHandler, jwtSecret string, blocklist *auth.Blocklist) {
	// Credential endpoints.  Refresh authenticates with the refresh token
	// itself, so it stays outside the access-token middleware.
	e.POST("/register", a.Register)
	e.POST("/login", a.Login)
	e.POST("/refresh", a.Refresh)

	// User endpoints are unauthenticated in this core (no admin roles
	// exist); they never expose password hashes.
	e.GET("/user", u.List)
	e.GET("/user/:id", u.Get)
	e.DELETE("/user/:id", u.Delete)

	// Everything below requires a valid, unrevoked access token.
	api := e.Group("")
	api.Use(middleware.JWTAuth(jwtSecret, blocklist))
	api.POST("/logout", a.Logout)
	api.GET("/habit", hb.List)
	api.POST("/habit", hb.Create)
	api.GET("/habit/:id", hb.Get)
	api.PUT("/habit/:id", hb.Put)
	api.DELETE("/habit/:id", hb.Delete)
}

// RegisterWeb registers the server-rendered surface.  The dashboard is the
// only part that needs an active session; the register/login/logout pages
// must stay reachable without one.
func RegisterWeb(e *echo.Echo, w *handler.WebHandler, sessions *repository.SessionRepo) {
	e.GET("/", w.Home)
	e.GET("/register_user", w.RegisterForm)
	e.POST("/register_user", w.Register)
	e.GET("/login_user", w.LoginForm)
	e.POST("/login_user", w.Login)
	e.GET("/logout", w.Logout)
	e.POST("/logout_user", w.Logout)

	// Session-gated dashboard.  An anonymous browser is redirected to the
	// login form instead of receiving a JSON 401.
	ui := e.Group("/dashboard")
	ui.Use(middleware.SessionAuth(sessions, "/login_user"))
	ui.GET("", w.Dashboard)
	ui.POST("", w.DashboardAction)
}
