package repository

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/shiftwise/scheduler/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WithArgs("Alice Baker", "alice@example.com", "hash", string(domain.PlanFree)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email_verified", "created_at", "version"}).
			AddRow(1, false, now, 1))

	user := &domain.User{
		Name:         "Alice Baker",
		Email:        "alice@example.com",
		PasswordHash: "hash",
		Plan:         domain.PlanFree,
	}
	require.NoError(t, repo.CreateUser(user))
	assert.Equal(t, int64(1), user.ID)
	assert.False(t, user.EmailVerified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByEmail(t *testing.T) {
	repo, mock := newMock(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "password_hash", "plan", "email_verified", "created_at", "version"}).
			AddRow(1, "Alice Baker", "hash", string(domain.PlanPremium), true, now, 2))

	user, err := repo.GetUserByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.PlanPremium, user.Plan)
	assert.True(t, user.EmailVerified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserVersionConflict(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users`)).
		WillReturnError(sql.ErrNoRows)

	user := &domain.User{ID: 1, Name: "Alice Baker", Version: 1}
	err := repo.UpdateUser(user)
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckEmailIfExists(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.CheckEmailIfExists("alice@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
