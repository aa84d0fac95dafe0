package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shiftwise/scheduler/internal/domain"
)

func (r *Repository) CreateSchedule(schedule *domain.Schedule) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO schedules (owner_id, name, stations, deadline_enabled, deadline_day, deadline_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`

	args := []any{schedule.OwnerID, schedule.Name, schedule.Stations, schedule.Deadline.Enabled, schedule.Deadline.Day, schedule.Deadline.Time}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.Version); err != nil {
		return err
	}

	if err := insertScheduleSettings(ctx, tx, schedule); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func insertScheduleSettings(ctx context.Context, tx *sql.Tx, schedule *domain.Schedule) error {
	for position, shift := range schedule.Shifts {
		query := `
			INSERT INTO schedule_shifts (schedule_id, name, enabled, start_time, end_time, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.ExecContext(ctx, query, schedule.ID, shift.Name, shift.Enabled, shift.StartTime, shift.EndTime, position); err != nil {
			return err
		}
	}

	for _, day := range schedule.Days {
		query := `
			INSERT INTO schedule_days (schedule_id, day_of_week)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, schedule.ID, int32(day)); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) GetScheduleByID(id int64) (*domain.Schedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT owner_id, name, stations, deadline_enabled, deadline_day, deadline_time, created_at, version
		FROM schedules WHERE id = $1
	`

	schedule := &domain.Schedule{
		ID: id,
	}

	dst := []any{&schedule.OwnerID, &schedule.Name, &schedule.Stations, &schedule.Deadline.Enabled, &schedule.Deadline.Day, &schedule.Deadline.Time, &schedule.CreatedAt, &schedule.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	query = `
		SELECT name, enabled, start_time, end_time
		FROM schedule_shifts
		WHERE schedule_id = $1
		ORDER BY position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedule.Shifts = make([]domain.ShiftSetting, 0, 3)
	for rows.Next() {
		var shift domain.ShiftSetting
		if err := rows.Scan(&shift.Name, &shift.Enabled, &shift.StartTime, &shift.EndTime); err != nil {
			return nil, err
		}
		schedule.Shifts = append(schedule.Shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query = `
		SELECT day_of_week
		FROM schedule_days
		WHERE schedule_id = $1
		ORDER BY day_of_week
	`

	dayRows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer dayRows.Close()

	schedule.Days = make([]time.Weekday, 0, 7)
	for dayRows.Next() {
		var day int32
		if err := dayRows.Scan(&day); err != nil {
			return nil, err
		}
		schedule.Days = append(schedule.Days, time.Weekday(day))
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (r *Repository) GetSchedulesByOwnerID(ownerID int64) ([]*domain.Schedule, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, stations, deadline_enabled, deadline_day, deadline_time, created_at, version
		FROM schedules
		WHERE owner_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]*domain.Schedule, 0)
	for rows.Next() {
		schedule := &domain.Schedule{
			OwnerID: ownerID,
		}
		dst := []any{&schedule.ID, &schedule.Name, &schedule.Stations, &schedule.Deadline.Enabled, &schedule.Deadline.Day, &schedule.Deadline.Time, &schedule.CreatedAt, &schedule.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

// UpdateSchedule rewrites the schedule row and its shift/day settings in one
// transaction. The version check makes concurrent settings updates lose
// cleanly with ErrConcurrencyConflict instead of silently overwriting.
func (r *Repository) UpdateSchedule(schedule *domain.Schedule) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		UPDATE schedules
		SET
			name = $1,
			stations = $2,
			deadline_enabled = $3,
			deadline_day = $4,
			deadline_time = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	args := []any{schedule.Name, schedule.Stations, schedule.Deadline.Enabled, schedule.Deadline.Day, schedule.Deadline.Time, schedule.ID, schedule.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&schedule.Version); err != nil {
		if err == sql.ErrNoRows {
			return domain.ErrConcurrencyConflict
		}
		return err
	}

	query = `DELETE FROM schedule_shifts WHERE schedule_id = $1`
	if _, err := tx.ExecContext(ctx, query, schedule.ID); err != nil {
		return err
	}

	query = `DELETE FROM schedule_days WHERE schedule_id = $1`
	if _, err := tx.ExecContext(ctx, query, schedule.ID); err != nil {
		return err
	}

	if err := insertScheduleSettings(ctx, tx, schedule); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// DeleteSchedule removes the schedule and everything hanging off it in one
// transaction, so a deleted schedule never leaves orphaned priorities or
// arrangements behind.
func (r *Repository) DeleteSchedule(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	queries := []string{
		`DELETE FROM arrangement_slot_assignees
		 WHERE slot_id IN (
			SELECT s.id FROM arrangement_slots s
			JOIN arrangements a ON s.arrangement_id = a.id
			WHERE a.schedule_id = $1
		 )`,
		`DELETE FROM arrangement_slots
		 WHERE arrangement_id IN (SELECT id FROM arrangements WHERE schedule_id = $1)`,
		`DELETE FROM arrangements WHERE schedule_id = $1`,
		`DELETE FROM priority_preferences
		 WHERE priority_id IN (SELECT id FROM priorities WHERE schedule_id = $1)`,
		`DELETE FROM priorities WHERE schedule_id = $1`,
		`DELETE FROM schedule_employees WHERE schedule_id = $1`,
		`DELETE FROM schedule_shifts WHERE schedule_id = $1`,
		`DELETE FROM schedule_days WHERE schedule_id = $1`,
		`DELETE FROM schedules WHERE id = $1`,
	}

	for _, query := range queries {
		if _, err := tx.ExecContext(ctx, query, id); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
