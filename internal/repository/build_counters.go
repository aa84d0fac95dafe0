package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shiftwise/scheduler/internal/domain"
)

// buildPeriod keys the counter to a calendar month, which is the free-tier
// reset period.
func buildPeriod(now time.Time) string {
	return now.UTC().Format("2006-01")
}

// GetBuildCount returns the caller's build count for the current period,
// zero when nothing has been generated yet.
func (r *Repository) GetBuildCount(userID int64) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return getBuildCount(ctx, r.dbpool, userID, buildPeriod(time.Now()))
}

func getBuildCount(ctx context.Context, q querier, userID int64, period string) (int, error) {
	count := 0
	query := `SELECT count FROM build_counters WHERE user_id = $1 AND period = $2`
	if err := q.QueryRowContext(ctx, query, userID, period).Scan(&count); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, err
	}

	return count, nil
}

// IncrementBuildCount bumps the caller's counter for the current period,
// failing with ErrQuotaExceeded once the cap is reached.
func (r *Repository) IncrementBuildCount(userID int64, limit int) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return incrementBuildCount(ctx, r.dbpool, userID, buildPeriod(time.Now()), limit)
}

// incrementBuildCount is the single atomic check-and-increment: the
// conditional upsert only moves the counter while it is below the cap, so
// two concurrent generations can never both pass a check that only one
// should have passed.
func incrementBuildCount(ctx context.Context, q querier, userID int64, period string, limit int) (int, error) {
	// The upsert's INSERT arm always grants the first build, so a
	// non-positive cap has to be rejected before the statement runs.
	if limit <= 0 {
		return 0, domain.ErrQuotaExceeded
	}

	count := 0
	query := `
		INSERT INTO build_counters (user_id, period, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, period)
		DO UPDATE SET count = build_counters.count + 1
		WHERE build_counters.count < $3
		RETURNING count
	`
	if err := q.QueryRowContext(ctx, query, userID, period, limit).Scan(&count); err != nil {
		if err == sql.ErrNoRows {
			return 0, domain.ErrQuotaExceeded
		}
		return 0, err
	}

	return count, nil
}
