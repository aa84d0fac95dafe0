package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shiftwise/scheduler/internal/domain"
)

// UpsertPriority stores a submission, replacing any earlier one for the same
// (submitter, schedule, station) tuple. Replacement is delete-then-insert in
// one transaction so the record is rewritten whole.
func (r *Repository) UpsertPriority(priority *domain.Priority) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := upsertPriority(ctx, tx, priority); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func upsertPriority(ctx context.Context, tx *sql.Tx, priority *domain.Priority) error {
	query := `
		DELETE FROM priority_preferences
		WHERE priority_id IN (
			SELECT id FROM priorities
			WHERE user_id = $1 AND schedule_id = $2 AND station = $3
		)
	`
	if _, err := tx.ExecContext(ctx, query, priority.Submitter.ID, priority.ScheduleID, priority.Station); err != nil {
		return err
	}

	query = `DELETE FROM priorities WHERE user_id = $1 AND schedule_id = $2 AND station = $3`
	if _, err := tx.ExecContext(ctx, query, priority.Submitter.ID, priority.ScheduleID, priority.Station); err != nil {
		return err
	}

	query = `
		INSERT INTO priorities (user_id, schedule_id, station)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, priority.Submitter.ID, priority.ScheduleID, priority.Station).Scan(&priority.ID, &priority.CreatedAt, &priority.Version); err != nil {
		return err
	}

	for position, key := range priority.Preferences {
		query := `
			INSERT INTO priority_preferences (priority_id, day_of_week, shift_name, position)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.ExecContext(ctx, query, priority.ID, int32(key.Day), key.Shift, position); err != nil {
			return err
		}
	}

	return nil
}

// ReplacePriority swaps one submission for another in a single transaction:
// the old record, any record already occupying the new (user, schedule,
// station) tuple, and the insert all commit or roll back together, so a
// failure partway never loses the original submission.
func (r *Repository) ReplacePriority(oldID int64, priority *domain.Priority) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM priority_preferences WHERE priority_id = $1`
	if _, err := tx.ExecContext(ctx, query, oldID); err != nil {
		return err
	}

	query = `DELETE FROM priorities WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, oldID); err != nil {
		return err
	}

	if err := upsertPriority(ctx, tx, priority); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetPriorityByID(id int64) (*domain.Priority, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	priorities, err := listPriorities(ctx, r.dbpool, `p.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(priorities) == 0 {
		return nil, sql.ErrNoRows
	}

	return priorities[0], nil
}

// GetPrioritiesByScheduleID returns the current submissions for a schedule,
// annotated with submitter identity, ordered by submission time then id so
// the generator's tie-breaking is reproducible.
func (r *Repository) GetPrioritiesByScheduleID(scheduleID int64) ([]*domain.Priority, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return listPriorities(ctx, r.dbpool, `p.schedule_id = $1`, scheduleID)
}

func listPriorities(ctx context.Context, q querier, where string, arg any) ([]*domain.Priority, error) {
	query := `
		SELECT
			p.id,
			p.schedule_id,
			p.station,
			p.created_at,
			p.version,
			u.id,
			u.name,
			u.email,
			pp.day_of_week,
			pp.shift_name
		FROM priorities p
		JOIN users u ON p.user_id = u.id
		LEFT JOIN priority_preferences pp ON p.id = pp.priority_id
		WHERE ` + where + `
		ORDER BY p.created_at, p.id, pp.position
	`

	rows, err := q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	priorities := make([]*domain.Priority, 0)
	var current *domain.Priority

	for rows.Next() {
		var row struct {
			id         int64
			scheduleID int64
			station    string
			createdAt  time.Time
			version    int32
			userID     int64
			userName   string
			userEmail  string
			day        sql.NullInt32
			shift      sql.NullString
		}

		dst := []any{
			&row.id,
			&row.scheduleID,
			&row.station,
			&row.createdAt,
			&row.version,
			&row.userID,
			&row.userName,
			&row.userEmail,
			&row.day,
			&row.shift,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if current == nil || current.ID != row.id {
			current = &domain.Priority{
				ID:         row.id,
				ScheduleID: row.scheduleID,
				Submitter: domain.UserRef{
					ID:    row.userID,
					Name:  row.userName,
					Email: row.userEmail,
				},
				Station:     row.station,
				Preferences: make([]domain.SlotKey, 0, 8),
				CreatedAt:   row.createdAt,
				Version:     row.version,
			}
			priorities = append(priorities, current)
		}

		if !row.day.Valid || !row.shift.Valid {
			// A submission with no preference rows; nothing to add.
			continue
		}

		current.Preferences = append(current.Preferences, domain.SlotKey{
			Day:   time.Weekday(row.day.Int32),
			Shift: row.shift.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return priorities, nil
}

func (r *Repository) DeletePriority(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `DELETE FROM priority_preferences WHERE priority_id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	query = `DELETE FROM priorities WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
