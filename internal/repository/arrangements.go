package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shiftwise/scheduler/internal/domain"
)

// BuildArrangement runs one generation for a schedule. The whole build —
// reading priorities, computing the assignment, inserting the new version and
// charging the caller's quota — happens in a single transaction holding the
// schedule's advisory lock, so concurrent builds for one schedule serialize
// while builds for other schedules proceed in parallel.
//
// The compute callback receives the priorities read under the lock and the
// build number the result will be stored as.
func (r *Repository) BuildArrangement(scheduleID int64, caller *domain.User, freeTierLimit int, compute func(priorities []*domain.Priority, buildNumber int64) (*domain.Arrangement, error)) (*domain.Arrangement, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// The lock is released when the transaction ends, success or not.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, scheduleID); err != nil {
		return nil, err
	}

	metered := caller.Plan == domain.PlanFree
	period := buildPeriod(time.Now())

	if metered {
		// Cheap pre-check so a capped caller fails before any assignment
		// work. The increment below remains the authoritative gate.
		count, err := getBuildCount(ctx, tx, caller.ID, period)
		if err != nil {
			return nil, err
		}
		if count >= freeTierLimit {
			return nil, domain.ErrQuotaExceeded
		}
	}

	priorities, err := listPriorities(ctx, tx, `p.schedule_id = $1`, scheduleID)
	if err != nil {
		return nil, err
	}

	var buildNumber int64
	query := `SELECT COALESCE(MAX(build_number), 0) + 1 FROM arrangements WHERE schedule_id = $1`
	if err := tx.QueryRowContext(ctx, query, scheduleID).Scan(&buildNumber); err != nil {
		return nil, err
	}

	arrangement, err := compute(priorities, buildNumber)
	if err != nil {
		return nil, err
	}
	arrangement.ScheduleID = scheduleID
	arrangement.BuildNumber = buildNumber

	query = `
		INSERT INTO arrangements (schedule_id, build_number)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	if err := tx.QueryRowContext(ctx, query, scheduleID, buildNumber).Scan(&arrangement.ID, &arrangement.CreatedAt); err != nil {
		return nil, err
	}

	for _, slot := range arrangement.Slots {
		query := `
			INSERT INTO arrangement_slots (arrangement_id, day_of_week, shift_name, station)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		var slotID int64
		if err := tx.QueryRowContext(ctx, query, arrangement.ID, int32(slot.Day), slot.Shift, slot.Station).Scan(&slotID); err != nil {
			return nil, err
		}

		for position, assignee := range slot.Assignees {
			query := `
				INSERT INTO arrangement_slot_assignees (slot_id, position, user_id)
				VALUES ($1, $2, $3)
			`
			if _, err := tx.ExecContext(ctx, query, slotID, position, assignee.ID); err != nil {
				return nil, err
			}
		}
	}

	if metered {
		if _, err := incrementBuildCount(ctx, tx, caller.ID, period, freeTierLimit); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return arrangement, nil
}

// GetLatestArrangementByScheduleID returns the highest-numbered build for a
// schedule, with vacant slots included. Fails with ErrNoArrangement when the
// schedule has never been generated.
func (r *Repository) GetLatestArrangementByScheduleID(scheduleID int64) (*domain.Arrangement, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			a.id,
			a.build_number,
			a.created_at,
			s.id,
			s.day_of_week,
			s.shift_name,
			s.station,
			asg.user_id,
			u.name
		FROM arrangements a
		JOIN arrangement_slots s ON a.id = s.arrangement_id
		LEFT JOIN arrangement_slot_assignees asg ON s.id = asg.slot_id
		LEFT JOIN users u ON asg.user_id = u.id
		WHERE a.schedule_id = $1
		  AND a.build_number = (SELECT MAX(build_number) FROM arrangements WHERE schedule_id = $1)
		ORDER BY s.id, asg.position
	`

	rows, err := r.dbpool.QueryContext(ctx, query, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	arrangement := &domain.Arrangement{
		ScheduleID: scheduleID,
		Slots:      make([]domain.ArrangementSlot, 0),
	}
	var currentSlotID int64

	for rows.Next() {
		var row struct {
			id          int64
			buildNumber int64
			createdAt   time.Time
			slotID      int64
			day         int32
			shift       string
			station     int32
			userID      sql.NullInt64
			userName    sql.NullString
		}

		dst := []any{
			&row.id,
			&row.buildNumber,
			&row.createdAt,
			&row.slotID,
			&row.day,
			&row.shift,
			&row.station,
			&row.userID,
			&row.userName,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		arrangement.ID = row.id
		arrangement.BuildNumber = row.buildNumber
		arrangement.CreatedAt = row.createdAt

		if len(arrangement.Slots) == 0 || currentSlotID != row.slotID {
			currentSlotID = row.slotID
			arrangement.Slots = append(arrangement.Slots, domain.ArrangementSlot{
				Day:       time.Weekday(row.day),
				Shift:     row.shift,
				Station:   row.station,
				Assignees: make([]domain.Assignee, 0, 1),
			})
		}

		if !row.userID.Valid {
			// Vacant slot.
			continue
		}

		slot := &arrangement.Slots[len(arrangement.Slots)-1]
		slot.Assignees = append(slot.Assignees, domain.Assignee{
			ID:   row.userID.Int64,
			Name: row.userName.String,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if arrangement.ID == 0 {
		return nil, domain.ErrNoArrangement
	}

	return arrangement, nil
}

// HasArrangement reports whether any build exists for the schedule.
func (r *Repository) HasArrangement(scheduleID int64) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	exists := false
	query := `SELECT EXISTS (SELECT 1 FROM arrangements WHERE schedule_id = $1)`
	if err := r.dbpool.QueryRowContext(ctx, query, scheduleID).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}
