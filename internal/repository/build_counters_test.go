package repository

import (
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/shiftwise/scheduler/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBuildCountZeroWhenUnseen(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count FROM build_counters`)).
		WithArgs(int64(1), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}))

	count, err := repo.GetBuildCount(1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementBuildCount(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO build_counters`)).
		WithArgs(int64(1), sqlmock.AnyArg(), 5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.IncrementBuildCount(1, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementBuildCountAtLimit(t *testing.T) {
	repo, mock := newMock(t)

	// The conditional upsert returns no row once the counter hits the cap.
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO build_counters`)).
		WithArgs(int64(1), sqlmock.AnyArg(), 5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}))

	_, err := repo.IncrementBuildCount(1, 5)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementBuildCountNonPositiveLimit(t *testing.T) {
	repo, mock := newMock(t)

	// A zero cap must not grant the first build via the INSERT arm; no
	// statement reaches the database at all.
	_, err := repo.IncrementBuildCount(1, 0)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)

	_, err = repo.IncrementBuildCount(1, -1)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildPeriodIsUTCMonth(t *testing.T) {
	// 2026-03-31 23:30 at UTC-5 is already April in UTC.
	local := time.Date(2026, time.March, 31, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))
	assert.Equal(t, "2026-04", buildPeriod(local))
}
