package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jwalitptl/booker-api/internal/model"
)

// ErrSlotTaken is returned by CreateIfFree when another non-cancelled
// appointment already occupies the requested interval.
var ErrSlotTaken = errors.New("slot already taken")

type DoctorRepository interface {
	Create(ctx context.Context, doctor *model.Doctor) error
	Get(ctx context.Context, id string) (*model.Doctor, error)
	Update(ctx context.Context, doctor *model.Doctor) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*model.Doctor, error)
	ListBySpecialty(ctx context.Context, specialty string) ([]*model.Doctor, error)
	ListSpecialties(ctx context.Context) ([]string, error)
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id string) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	// FindByContact returns the first patient matching a non-empty email
	// or phone, or nil when none matches.
	FindByContact(ctx context.Context, email, phone string) (*model.Patient, error)
}

type AppointmentRepository interface {
	// CreateIfFree persists the appointment only when no other
	// non-cancelled appointment for the same doctor overlaps its
	// half-open interval. The check and the insert run in one
	// transaction so concurrent bookers cannot both win.
	CreateIfFree(ctx context.Context, apt *model.Appointment) error
	Get(ctx context.Context, id string) (*model.Appointment, error)
	// ListForDoctorRange returns non-cancelled appointments for the
	// doctor whose intervals fall inside [from, to).
	ListForDoctorRange(ctx context.Context, doctorID string, from, to time.Time) ([]*model.Appointment, error)
	ListForPatient(ctx context.Context, patientID string) ([]*model.Appointment, error)
	// Cancel flips status to cancelled, keeping the row for history.
	Cancel(ctx context.Context, id string) error
	// SetCalendarEventID records the external calendar reference after
	// the best-effort sync that follows persistence.
	SetCalendarEventID(ctx context.Context, id, eventID string) error
}
