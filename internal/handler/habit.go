package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-tracker/internal/model"
	"github.com/iliyamo/habit-tracker/internal/queue"
	"github.com/iliyamo/habit-tracker/internal/repository"
	event_publisher "github.com/iliyamo/habit-tracker/internal/service"
)

// HabitHandler exposes habit CRUD for the token-authenticated API.  All
// routes run behind JWTAuth, and every operation is scoped to the
// authenticated owner: reading, overwriting or deleting someone else's
// habit answers 403 and leaves the row untouched.
type HabitHandler struct {
	Habits *repository.HabitRepo
}

func NewHabitHandler(r *repository.HabitRepo) *HabitHandler { return &HabitHandler{Habits: r} }

// ----- DTOs -----

type habitReq struct {
	Name    string `json:"name"`
	Checked string `json:"checked"`
}

type habitResp struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Checked string `json:"checked"`
	UserID  uint64 `json:"user_id"`
}

func toHabitResp(h model.Habit) habitResp {
	return habitResp{ID: h.ID, Name: h.Name, Checked: h.Checked, UserID: h.UserID}
}

// List returns the caller's habits in insertion order.
func (h *HabitHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	habits, err := h.Habits.ListByOwner(ctx, uid)
	if err != nil {
		c.Logger().Errorf("habit list: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]habitResp, 0, len(habits))
	for _, hb := range habits {
		out = append(out, toHabitResp(hb))
	}
	return c.JSON(http.StatusOK, out)
}

// Create inserts a habit for the caller.  A missing checked field starts
// the habit in the "No" state.
func (h *HabitHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req habitReq
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hb, err := h.Habits.Create(ctx, uid, req.Name, req.Checked)
	if err != nil {
		c.Logger().Errorf("habit create: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "error when inserting habit"})
	}

	_ = event_publisher.PublishHabitEvent(ctx, queue.HabitCreatedQueue, habitEvent(hb))

	return c.JSON(http.StatusCreated, toHabitResp(hb))
}

// Get returns a habit by id, provided the caller owns it.
func (h *HabitHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid habit id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hb, err := h.Habits.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "habit not found"})
		}
		c.Logger().Errorf("habit get: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if hb.UserID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, toHabitResp(hb))
}

// Put upserts a habit under the given id: overwrite when the caller owns
// it, create with that id when absent, 403 when it belongs to someone
// else.
func (h *HabitHandler) Put(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid habit id"})
	}
	var req habitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hb, err := h.Habits.Upsert(ctx, id, uid, req.Name, req.Checked)
	if err != nil {
		if err == repository.ErrForbidden {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		c.Logger().Errorf("habit put: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upsert failed"})
	}

	if hb.Checked == model.CheckedYes {
		_ = event_publisher.PublishHabitEvent(ctx, queue.HabitCheckedQueue, habitEvent(hb))
	}

	return c.JSON(http.StatusOK, toHabitResp(hb))
}

// Delete removes a habit the caller owns.
func (h *HabitHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid habit id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Habits.Delete(ctx, id, uid); err != nil {
		switch err {
		case repository.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "habit not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		default:
			c.Logger().Errorf("habit delete: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
		}
	}

	_ = event_publisher.PublishHabitEvent(ctx, queue.HabitDeletedQueue, queue.HabitEvent{
		HabitID:    id,
		UserID:     uid,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "habit deleted"})
}

func habitEvent(h model.Habit) queue.HabitEvent {
	return queue.HabitEvent{
		HabitID:    h.ID,
		UserID:     h.UserID,
		Name:       h.Name,
		Checked:    h.Checked,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
