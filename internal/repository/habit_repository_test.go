package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/habit-tracker/internal/model"
)

func newHabitRepoMock(t *testing.T) (*HabitRepo, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewHabitRepo(db), mock, func() { db.Close() }
}

func habitRows(habits ...model.Habit) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name", "checked", "user_id", "created_at"})
	for _, h := range habits {
		rows.AddRow(h.ID, h.Name, h.Checked, h.UserID, time.Now())
	}
	return rows
}

func TestHabitRepoCreateDefaultsToNo(t *testing.T) {
	repo, mock, cleanup := newHabitRepoMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO habits").
		WithArgs("Run", "No", uint64(1)).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectQuery("SELECT .+ FROM habits WHERE id=").
		WithArgs(uint64(7)).
		WillReturnRows(habitRows(model.Habit{ID: 7, Name: "Run", Checked: "No", UserID: 1}))

	h, err := repo.Create(context.Background(), 1, "Run", "")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), h.ID)
	assert.Equal(t, model.CheckedNo, h.Checked)
	assert.Equal(t, uint64(1), h.UserID)
}

func TestHabitRepoListByOwnerInsertionOrder(t *testing.T) {
	repo, mock, cleanup := newHabitRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM habits WHERE user_id=.+ORDER BY id").
		WithArgs(uint64(1)).
		WillReturnRows(habitRows(
			model.Habit{ID: 1, Name: "Run", Checked: "No", UserID: 1},
			model.Habit{ID: 2, Name: "Read", Checked: "Yes", UserID: 1},
		))

	habits, err := repo.ListByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, habits, 2)
	assert.Equal(t, "Run", habits[0].Name)
	assert.Equal(t, "Read", habits[1].Name)
}

func TestHabitRepoUpdateMergesFields(t *testing.T) {
	repo, mock, cleanup := newHabitRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM habits WHERE id=").
		WithArgs(uint64(7)).
		WillReturnRows(habitRows(model.Habit{ID: 7, Name: "Run", Checked: "No", UserID: 1}))
	// empty name keeps the current value, checked flips
	mock.ExpectExec("UPDATE habits SET name=.+ WHERE id=.+ AND user_id=").
		WithArgs("Run", "Yes", uint64(7), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h, err := repo.Update(context.Background(), 7, 1, "", "Yes")
	require.NoError(t, err)
	assert.Equal(t, "Run", h.Name)
	assert.Equal(t, model.CheckedYes, h.Checked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHabitRepoUpdateByNonOwnerLeavesHabitUntouched(t *testing.T) {
	repo, mock, cleanup := newHabitRepoMock(t)
	defer cleanup()

	// habit belongs to user 2, requester is user 1: no UPDATE is issued
	mock.ExpectQuery("SELECT .+ FROM habits WHERE id=").
		WithArgs(uint64(7)).
		WillReturnRows(habitRows(model.Habit{ID: 7, Name: "Run", Checked: "No", UserID: 2}))

	_, err := repo.Update(context.Background(), 7, 1, "Stolen", "Yes")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHabitRepoUpdateNotFound(t *testing.T) {
	repo, mock, cleanup := newHabitRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM habits WHERE id=").
		WithArgs(uint64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), 99, 1, "x", "Yes")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHabitRepoUpsertCreatesWithGivenID(t *testing.T) {
	repo, mock, cleanup := newHabitRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM habits WHERE id=").
		WithArgs(uint64(5)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO habits").
		WithArgs(uint64(5), "Swim", "No", uint64(1)).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectQuery("SELECT .+ FROM habits WHERE id=").
		WithArgs(uint64(5)).
		WillReturnRows(habitRows(model.Habit{ID: 5, Name: "Swim", Checked: "No", UserID: 1}))

	h, err := repo.Upsert(context.Background(), 5, 1, "Swim", "")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), h.ID)
	assert.Equal(t, uint64(1), h.UserID)
}

func TestHabitRepoUpsertForeignHabitForbidden(t *testing.T) {
	repo, mock, cleanup := newHabitRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM habits WHERE id=").
		WithArgs(uint64(5)).
		WillReturnRows(habitRows(model.Habit{ID: 5, Name: "Swim", Checked: "No", UserID: 2}))

	_, err := repo.Upsert(context.Background(), 5, 1, "Swim", "Yes")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHabitRepoDelete(t *testing.T) {
	repo, mock, cleanup := newHabitRepoMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM habits WHERE id=").
		WithArgs(uint64(7)).
		WillReturnRows(habitRows(model.Habit{ID: 7, Name: "Run", Checked: "No", UserID: 1}))
	mock.ExpectExec("DELETE FROM habits WHERE id=.+ AND user_id=").
		WithArgs(uint64(7), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), 7, 1))

	mock.ExpectQuery("SELECT .+ FROM habits WHERE id=").
		WithArgs(uint64(7)).
		WillReturnError(sql.ErrNoRows)
	assert.ErrorIs(t, repo.Delete(context.Background(), 7, 1), ErrNotFound)
}
