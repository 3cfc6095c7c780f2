package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/booker-api/internal/model"
	"github.com/jwalitptl/booker-api/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

// CreateIfFree is the commit-time compare-and-swap. Row locks alone
// cannot guard the empty case: when no conflicting row exists yet, two
// concurrent transactions would each see zero rows and both insert. The
// per-doctor advisory lock serializes the whole check-and-insert, held
// until the transaction ends, so the loser re-reads after the winner's
// commit and gets ErrSlotTaken.
func (r *appointmentRepository) CreateIfFree(ctx context.Context, apt *model.Appointment) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, apt.DoctorID); err != nil {
		return fmt.Errorf("failed to take booking lock: %w", err)
	}

	conflictQuery := `
		SELECT id FROM appointments
		WHERE doctor_id = $1
		AND status <> 'cancelled'
		AND start_time < $3
		AND end_time > $2
		FOR UPDATE
	`
	var conflicting []string
	if err := tx.SelectContext(ctx, &conflicting, conflictQuery, apt.DoctorID, apt.StartTime, apt.EndTime); err != nil {
		return fmt.Errorf("failed to check conflicts: %w", err)
	}
	if len(conflicting) > 0 {
		return repository.ErrSlotTaken
	}

	insertQuery := `
		INSERT INTO appointments (
			id, doctor_id, patient_id, doctor_name, patient_name,
			date, start_time, end_time, status, payment_status,
			reason, type, calendar_event_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()

	_, err = tx.ExecContext(ctx, insertQuery,
		apt.ID,
		apt.DoctorID,
		apt.PatientID,
		apt.DoctorName,
		apt.PatientName,
		apt.Date,
		apt.StartTime,
		apt.EndTime,
		apt.Status,
		apt.PaymentStatus,
		apt.Reason,
		apt.Type,
		apt.CalendarEventID,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id string) (*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE id = $1`
	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) ListForDoctorRange(ctx context.Context, doctorID string, from, to time.Time) ([]*model.Appointment, error) {
	query := `
		SELECT * FROM appointments
		WHERE doctor_id = $1
		AND status <> 'cancelled'
		AND start_time < $3
		AND end_time > $2
		ORDER BY start_time ASC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, from, to); err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListForPatient(ctx context.Context, patientID string) ([]*model.Appointment, error) {
	query := `
		SELECT * FROM appointments
		WHERE patient_id = $1
		ORDER BY start_time DESC
	`
	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) SetCalendarEventID(ctx context.Context, id, eventID string) error {
	query := `UPDATE appointments SET calendar_event_id = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, eventID, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set calendar event id: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Cancel is a logical delete: the row stays for history and the interval
// becomes bookable again because every conflict query filters cancelled rows.
func (r *appointmentRepository) Cancel(ctx context.Context, id string) error {
	query := `
		UPDATE appointments
		SET status = 'cancelled', updated_at = $1
		WHERE id = $2 AND status <> 'cancelled'
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
