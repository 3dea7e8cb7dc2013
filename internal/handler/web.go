package handler

// web.go implements the server-rendered surface: registration and login
// forms, the habit dashboard, and logout.  These routes authenticate with
// a DB-backed session cookie instead of bearer tokens; the browser never
// sees a JWT.

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-tracker/internal/config"
	"github.com/iliyamo/habit-tracker/internal/middleware"
	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/repository"
	"github.com/iliyamo/habit-tracker/internal/utils"
)

// WebHandler bundles dependencies for the server-rendered UI.
type WebHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Habits   *repository.HabitRepo
	Sessions *repository.SessionRepo
}

func NewWebHandler(cfg config.Config, u *repository.UserRepo, h *repository.HabitRepo, s *repository.SessionRepo) *WebHandler {
	return &WebHandler{Cfg: cfg, Users: u, Habits: h, Sessions: s}
}

// formCredentials carries the register/login form fields.  The same 4-20
// length rule applies as on the API.
type formCredentials struct {
	Username string `form:"username" validate:"required,min=4,max=20"`
	Password string `form:"pwd" validate:"required,min=4,max=20"`
}

// formPage is the data handed to the register and login templates.
type formPage struct {
	Error string
}

// dashboardPage is the data handed to the dashboard template.
type dashboardPage struct {
	Username string
	Habits   []model.Habit
}

// Home renders the landing page.
func (h *WebHandler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "home.html", nil)
}

// RegisterForm renders the empty registration form.
func (h *WebHandler) RegisterForm(c echo.Context) error {
	return c.Render(http.StatusOK, "register.html", formPage{})
}

// Register handles the registration form post.  On success the browser is
// sent to the login page; a taken username re-renders the form with an
// error.
func (h *WebHandler) Register(c echo.Context) error {
	var req formCredentials
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusBadRequest, "register.html", formPage{Error: "Invalid form submission."})
	}
	if err := c.Validate(&req); err != nil {
		return c.Render(http.StatusBadRequest, "register.html", formPage{Error: "Username and password must be 4-20 characters."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.Create(ctx, req.Username, req.Password, h.Cfg.BcryptCost); err != nil {
		if err == repository.ErrUsernameExists {
			return c.Render(http.StatusBadRequest, "register.html", formPage{Error: "That username already exists."})
		}
		c.Logger().Errorf("web register: %v", err)
		return c.Render(http.StatusInternalServerError, "register.html", formPage{Error: "Could not create the account."})
	}
	return c.Redirect(http.StatusFound, "/login_user")
}

// LoginForm renders the empty login form.
func (h *WebHandler) LoginForm(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", formPage{})
}

// Login verifies the form credentials and opens a session.  The error
// message is the same whether the username or the password was wrong.
func (h *WebHandler) Login(c echo.Context) error {
	var req formCredentials
	if err := c.Bind(&req); err != nil || req.Username == "" || req.Password == "" {
		return c.Render(http.StatusBadRequest, "login.html", formPage{Error: "Invalid credentials."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.Render(http.StatusUnauthorized, "login.html", formPage{Error: "Invalid credentials."})
		}
		c.Logger().Errorf("web login: %v", err)
		return c.Render(http.StatusInternalServerError, "login.html", formPage{Error: "Login failed."})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.Render(http.StatusUnauthorized, "login.html", formPage{Error: "Invalid credentials."})
	}

	raw, err := utils.NewSessionToken()
	if err != nil {
		return c.Render(http.StatusInternalServerError, "login.html", formPage{Error: "Login failed."})
	}
	exp := time.Now().UTC().Add(time.Duration(h.Cfg.SessionTTLHrs) * time.Hour)
	if err := h.Sessions.Create(ctx, u.ID, utils.HashSessionRaw(raw), exp); err != nil {
		c.Logger().Errorf("web login: save session: %v", err)
		return c.Render(http.StatusInternalServerError, "login.html", formPage{Error: "Login failed."})
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    raw,
		Path:     "/",
		Expires:  exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusFound, "/dashboard")
}

// Dashboard renders the authenticated user's habit list.  SessionAuth has
// already resolved the cookie into a user id.
func (h *WebHandler) Dashboard(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login_user")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		// session points at a deleted user; drop back to login
		return c.Redirect(http.StatusFound, "/login_user")
	}
	habits, err := h.Habits.ListByOwner(ctx, uid)
	if err != nil {
		c.Logger().Errorf("dashboard: list habits: %v", err)
		return c.Render(http.StatusInternalServerError, "dashboard.html", dashboardPage{Username: u.Username})
	}
	return c.Render(http.StatusOK, "dashboard.html", dashboardPage{Username: u.Username, Habits: habits})
}

// DashboardAction handles the dashboard form post.  The form carries one
// of three submit buttons (add / update / delete) plus the habit fields;
// every mutation is ownership-checked by the repository.  The handler
// always redirects back to the dashboard so a browser refresh never
// replays the form.
func (h *WebHandler) DashboardAction(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.Redirect(http.StatusFound, "/login_user")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch {
	case c.FormValue("add") != "":
		name := c.FormValue("habit_name")
		if name != "" {
			if _, err := h.Habits.Create(ctx, uid, name, model.CheckedNo); err != nil {
				c.Logger().Errorf("dashboard add: %v", err)
			}
		}
	case c.FormValue("update") != "":
		if id, err := strconv.ParseUint(c.FormValue("habit_id"), 10, 64); err == nil {
			if _, err := h.Habits.Update(ctx, id, uid, c.FormValue("habit_name"), c.FormValue("checked")); err != nil {
				c.Logger().Errorf("dashboard update: %v", err)
			}
		}
	case c.FormValue("delete") != "":
		if id, err := strconv.ParseUint(c.FormValue("habit_id"), 10, 64); err == nil {
			if err := h.Habits.Delete(ctx, id, uid); err != nil {
				c.Logger().Errorf("dashboard delete: %v", err)
			}
		}
	}
	return c.Redirect(http.StatusFound, "/dashboard")
}

// Logout closes the browser session.  It deletes the session row, expires
// the cookie and redirects to the login page.  Calling it without a live
// session is harmless.
func (h *WebHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		_ = h.Sessions.Delete(ctx, utils.HashSessionRaw(cookie.Value))
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, "/login_user")
}
