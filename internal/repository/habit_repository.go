package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/habit-tracker/internal/model"
)

// HabitRepo persists rows of the 'habits' table.  Every mutating call
// takes the requesting user's id and enforces ownership: a habit is only
// writable by the user it belongs to.
type HabitRepo struct{ DB *sql.DB }

func NewHabitRepo(db *sql.DB) *HabitRepo { return &HabitRepo{DB: db} }

const habitColumns = "id,name,checked,user_id,created_at"

// Create inserts a habit for the given owner.  A blank checked value
// defaults to "No" (not done this period).
func (r *HabitRepo) Create(ctx context.Context, userID uint64, name, checked string) (model.Habit, error) {
	if strings.TrimSpace(checked) == "" {
		checked = model.CheckedNo
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO habits (name, checked, user_id) VALUES (?,?,?)",
		name, checked, userID)
	if err != nil {
		return model.Habit{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Habit{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a habit by id.
func (r *HabitRepo) GetByID(ctx context.Context, id uint64) (model.Habit, error) {
	var h model.Habit
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+habitColumns+" FROM habits WHERE id=? LIMIT 1",
		id).Scan(&h.ID, &h.Name, &h.Checked, &h.UserID, &h.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Habit{}, ErrNotFound
	}
	return h, err
}

// ListByOwner returns all habits belonging to a user in insertion order.
func (r *HabitRepo) ListByOwner(ctx context.Context, userID uint64) ([]model.Habit, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+habitColumns+" FROM habits WHERE user_id=? ORDER BY id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := make([]model.Habit, 0)
	for rows.Next() {
		var h model.Habit
		if err := rows.Scan(&h.ID, &h.Name, &h.Checked, &h.UserID, &h.CreatedAt); err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

// Update mutates name and/or checked of a habit owned by requesterID.
// Empty fields keep their current value.  A habit owned by someone else is
// left untouched and ErrForbidden is returned; a missing habit yields
// ErrNotFound.
func (r *HabitRepo) Update(ctx context.Context, id, requesterID uint64, name, checked string) (model.Habit, error) {
	h, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Habit{}, err
	}
	if h.UserID != requesterID {
		return model.Habit{}, ErrForbidden
	}
	if strings.TrimSpace(name) != "" {
		h.Name = name
	}
	if strings.TrimSpace(checked) != "" {
		h.Checked = checked
	}
	// user_id=? in the guard keeps the ownership check authoritative even
	// if the row changed hands between the read and the write.
	_, err = r.DB.ExecContext(ctx,
		"UPDATE habits SET name=?, checked=? WHERE id=? AND user_id=?",
		h.Name, h.Checked, h.ID, requesterID)
	if err != nil {
		return model.Habit{}, err
	}
	return h, nil
}

// Upsert implements idempotent PUT semantics: if the habit exists and is
// owned by requesterID it is overwritten, if it exists under another owner
// ErrForbidden is returned, and if it does not exist it is created with
// that exact id for the requester.
func (r *HabitRepo) Upsert(ctx context.Context, id, requesterID uint64, name, checked string) (model.Habit, error) {
	h, err := r.GetByID(ctx, id)
	switch err {
	case nil:
		if h.UserID != requesterID {
			return model.Habit{}, ErrForbidden
		}
		return r.Update(ctx, id, requesterID, name, checked)
	case ErrNotFound:
		if strings.TrimSpace(checked) == "" {
			checked = model.CheckedNo
		}
		_, err := r.DB.ExecContext(ctx,
			"INSERT INTO habits (id, name, checked, user_id) VALUES (?,?,?,?)",
			id, name, checked, requesterID)
		if err != nil {
			return model.Habit{}, err
		}
		return r.GetByID(ctx, id)
	default:
		return model.Habit{}, err
	}
}

// Delete removes a habit owned by requesterID.  Same ownership contract as
// Update.
func (r *HabitRepo) Delete(ctx context.Context, id, requesterID uint64) error {
	h, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if h.UserID != requesterID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx,
		"DELETE FROM habits WHERE id=? AND user_id=?", id, requesterID)
	return err
}
