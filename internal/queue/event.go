// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names for habit-tracker domain events.  The routing key equals the
// queue name; all queues are durable.
const (
	UserRegisteredQueue = "user.registered"
	HabitCreatedQueue   = "habit.created"
	HabitCheckedQueue   = "habit.checked"
	HabitDeletedQueue   = "habit.deleted"
)

// UserRegisteredEvent is published when a new account is created.  It
// contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type UserRegisteredEvent struct {
	UserID       uint64 `json:"user_id"`
	Username     string `json:"username"`
	RegisteredAt string `json:"registered_at"`
}

// HabitEvent is published when a habit is created, checked off, or
// deleted.  The queue the event lands on tells consumers which of the
// three happened.
type HabitEvent struct {
	HabitID    uint64 `json:"habit_id"`
	UserID     uint64 `json:"user_id"`
	Name       string `json:"name"`
	Checked    string `json:"checked"`
	OccurredAt string `json:"occurred_at"`
}
