package repository

import (
	"context"
	"time"

	"github.com/shiftwise/scheduler/internal/domain"
)

func (r *Repository) AddScheduleEmployee(employee *domain.ScheduleEmployee) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO schedule_employees (schedule_id, name, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	args := []any{employee.ScheduleID, employee.Name, employee.Email}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.ID, &employee.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetEmployeesByScheduleID(scheduleID int64) ([]*domain.ScheduleEmployee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, email, created_at
		FROM schedule_employees
		WHERE schedule_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.ScheduleEmployee, 0)
	for rows.Next() {
		employee := &domain.ScheduleEmployee{
			ScheduleID: scheduleID,
		}
		if err := rows.Scan(&employee.ID, &employee.Name, &employee.Email, &employee.CreatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) GetScheduleEmployeeByID(id int64) (*domain.ScheduleEmployee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT schedule_id, name, email, created_at
		FROM schedule_employees WHERE id = $1
	`

	employee := &domain.ScheduleEmployee{
		ID: id,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&employee.ScheduleID, &employee.Name, &employee.Email, &employee.CreatedAt); err != nil {
		return nil, err
	}

	return employee, nil
}

func (r *Repository) DeleteScheduleEmployee(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `DELETE FROM schedule_employees WHERE id = $1`
	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
