package model

import "time"

// Checked values for a habit.  The column is a short string rather than a
// boolean because the dashboard renders and submits it verbatim.
const (
	CheckedYes = "Yes"
	CheckedNo  = "No"
)

// Habit models a row in the `habits` table.  Every habit belongs to
// exactly one user; UserID is set at creation and never changes.
//
// Fields:
//
//	ID        – primary key identifier.
//	Name      – free-text habit name.
//	Checked   – completion marker for the current period ("Yes"/"No").
//	UserID    – owning user (references users.id, cascade on delete).
//	CreatedAt – timestamp of creation; listing is ordered by insertion.
type Habit struct {
	ID        uint64    // habits.id
	Name      string    // habits.name
	Checked   string    // habits.checked
	UserID    uint64    // habits.user_id
	CreatedAt time.Time // habits.created_at
}
