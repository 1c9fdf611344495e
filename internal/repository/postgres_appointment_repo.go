package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sweeezy/backend/internal/model"
)

// PostgresAppointmentRepo is the PostgreSQL-backed appointment repository.
type PostgresAppointmentRepo struct {
	db *sql.DB
}

// NewPostgresAppointmentRepo creates a PostgresAppointmentRepo.
func NewPostgresAppointmentRepo(db *sql.DB) *PostgresAppointmentRepo {
	return &PostgresAppointmentRepo{db: db}
}

func scanAppointment(row interface{ Scan(...any) error }) (*model.Appointment, error) {
	appt := &model.Appointment{}
	var description sql.NullString

	err := row.Scan(
		&appt.ID, &appt.Title, &description, &appt.ScheduledAt,
		&appt.DurationMinutes, &appt.Status, &appt.CreatedAt, &appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	appt.Description = nullStringValue(description)
	return appt, nil
}

// FindByID returns the appointment with the given id, or nil when absent.
func (r *PostgresAppointmentRepo) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	appt, err := scanAppointment(r.db.QueryRowContext(ctx,
		`SELECT id, title, description, scheduled_at, duration_minutes, status,
		        created_at, updated_at
		 FROM appointments WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find appointment by id: %w", err)
	}
	return appt, nil
}

// Create inserts a new appointment.
func (r *PostgresAppointmentRepo) Create(ctx context.Context, appt *model.Appointment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO appointments (id, title, description, scheduled_at,
		                           duration_minutes, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		appt.ID, appt.Title, nullString(appt.Description), appt.ScheduledAt,
		appt.DurationMinutes, appt.Status, appt.CreatedAt, appt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create appointment: %w", err)
	}
	return nil
}

// Update overwrites the appointment.
func (r *PostgresAppointmentRepo) Update(ctx context.Context, appt *model.Appointment) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE appointments SET
		    title = $2, description = $3, scheduled_at = $4,
		    duration_minutes = $5, status = $6, updated_at = $7
		 WHERE id = $1`,
		appt.ID, appt.Title, nullString(appt.Description), appt.ScheduledAt,
		appt.DurationMinutes, appt.Status, appt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	return nil
}

// Delete removes an appointment.
func (r *PostgresAppointmentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return nil
}

// List returns appointments ordered by scheduled time, optionally filtered
// by status.
func (r *PostgresAppointmentRepo) List(ctx context.Context, status model.AppointmentStatus) ([]*model.Appointment, error) {
	query := `SELECT id, title, description, scheduled_at, duration_minutes, status,
	                 created_at, updated_at
	          FROM appointments`
	args := []any{}

	if status != "" {
		args = append(args, status)
		query += " WHERE status = $1"
	}
	query += " ORDER BY scheduled_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment row: %w", err)
		}
		appointments = append(appointments, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointment rows: %w", err)
	}
	return appointments, nil
}

// compile-time interface check
var _ AppointmentRepository = (*PostgresAppointmentRepo)(nil)
