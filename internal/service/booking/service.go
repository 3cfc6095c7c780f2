// Package booking holds the one stateful control flow: validating a
// chosen slot, persisting the appointment through the commit-time
// conflict guard, and running the best-effort calendar and email side
// effects.
package booking

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jwalitptl/booker-api/internal/calendar"
	"github.com/jwalitptl/booker-api/internal/email"
	"github.com/jwalitptl/booker-api/internal/model"
	"github.com/jwalitptl/booker-api/internal/repository"
	"github.com/jwalitptl/booker-api/internal/scheduling"
	"github.com/jwalitptl/booker-api/pkg/errors"
	"github.com/jwalitptl/booker-api/pkg/identifier"
	"github.com/jwalitptl/booker-api/pkg/logger"
)

// PlaceholderEventRef marks an appointment whose external calendar sync
// did not happen, so booking success never depends on it.
const PlaceholderEventRef = "pending-sync"

type Service struct {
	doctors      repository.DoctorRepository
	patients     repository.PatientRepository
	appointments repository.AppointmentRepository
	calendar     calendar.Service
	email        email.Service
	width        time.Duration
	loc          *time.Location
	logger       *logger.Logger
}

func NewService(
	doctors repository.DoctorRepository,
	patients repository.PatientRepository,
	appointments repository.AppointmentRepository,
	cal calendar.Service,
	mail email.Service,
	width time.Duration,
	loc *time.Location,
	l *logger.Logger,
) *Service {
	return &Service{
		doctors:      doctors,
		patients:     patients,
		appointments: appointments,
		calendar:     cal,
		email:        mail,
		width:        width,
		loc:          loc,
		logger:       l,
	}
}

// Book validates and persists a booking. The conflict check runs again
// at commit time inside the store's transaction: the availability the
// client saw is stale by definition, and whichever concurrent request's
// write lands first wins.
func (s *Service) Book(ctx context.Context, req *model.BookAppointmentRequest) (*model.BookingResult, error) {
	if req.PatientEmail == "" && req.PatientPhone == "" {
		return nil, errors.Validation("at least one of patientEmail or patientPhone is required", nil)
	}

	doctor, err := s.doctors.Get(ctx, req.DoctorID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("doctor", err)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}

	date, err := scheduling.ParseDate(req.Date, s.loc)
	if err != nil {
		return nil, errors.Validation("invalid date, expected YYYY-MM-DD", err)
	}

	start, end, err := scheduling.ParseSlotLabel(date, req.TimeSlot)
	if err != nil {
		return nil, errors.Validation(err.Error(), err)
	}
	if err := s.validateWindow(doctor, date, start, end); err != nil {
		return nil, err
	}

	patient, err := s.upsertPatient(ctx, req)
	if err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		ID:              identifier.NewAppointmentID(),
		DoctorID:        doctor.ID,
		PatientID:       patient.ID,
		DoctorName:      doctor.Name,
		PatientName:     patient.Name,
		Date:            req.Date,
		StartTime:       start,
		EndTime:         end,
		Status:          model.AppointmentStatusConfirmed,
		PaymentStatus:   model.PaymentStatusPending,
		Reason:          req.Reason,
		Type:            req.AppointmentType,
		CalendarEventID: PlaceholderEventRef,
	}

	err = s.appointments.CreateIfFree(ctx, apt)
	if stderrors.Is(err, repository.ErrSlotTaken) {
		return nil, errors.Conflict("slot no longer available", err)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}

	result := &model.BookingResult{Appointment: apt}
	result.CalendarSynced = s.syncCalendar(ctx, doctor, patient, apt)
	result.NotificationSent = s.notify(ctx, patient, apt)
	return result, nil
}

// Cancel flips the appointment to cancelled and releases the external
// calendar event when one was created. The calendar release is
// best-effort only.
func (s *Service) Cancel(ctx context.Context, id string) error {
	apt, err := s.appointments.Get(ctx, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NotFound("appointment", err)
	}
	if err != nil {
		return errors.Internal(err)
	}

	if apt.Status == model.AppointmentStatusCancelled {
		return errors.Conflict("appointment is already cancelled", nil)
	}

	err = s.appointments.Cancel(ctx, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NotFound("appointment", err)
	}
	if err != nil {
		return errors.Internal(err)
	}

	if apt.CalendarEventID != "" && apt.CalendarEventID != PlaceholderEventRef {
		doctor, err := s.doctors.Get(ctx, apt.DoctorID)
		if err == nil && doctor.CalendarID != "" {
			if err := s.calendar.DeleteEvent(ctx, doctor.CalendarID, apt.CalendarEventID); err != nil {
				s.logger.Error(err, "calendar event release failed", "appointment_id", id)
			}
		}
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Appointment, error) {
	apt, err := s.appointments.Get(ctx, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}
	return apt, nil
}

func (s *Service) ListForPatient(ctx context.Context, patientID string) ([]*model.Appointment, error) {
	appointments, err := s.appointments.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return appointments, nil
}

// validateWindow rejects requests outside the doctor's working hours or
// off the slot grid. The label round-trip normally guarantees this; the
// check guards against hand-crafted labels.
func (s *Service) validateWindow(doctor *model.Doctor, date time.Time, start, end time.Time) error {
	day := doctor.Availability.ForDay(date.Weekday())
	if !day.Available {
		return errors.Validation("doctor is not available on this day", nil)
	}

	dayStartMin, err := scheduling.ParseClock(day.Start)
	if err != nil {
		return errors.Internal(fmt.Errorf("corrupt availability template: %w", err))
	}
	dayEndMin, err := scheduling.ParseClock(day.End)
	if err != nil {
		return errors.Internal(fmt.Errorf("corrupt availability template: %w", err))
	}

	dayStart := date.Add(time.Duration(dayStartMin) * time.Minute)
	dayEnd := date.Add(time.Duration(dayEndMin) * time.Minute)
	if start.Before(dayStart) || end.After(dayEnd) {
		return errors.Validation("requested slot is outside working hours", nil)
	}

	if end.Sub(start) != s.width {
		return errors.Validation("requested slot does not match the booking duration", nil)
	}
	if start.Sub(dayStart)%s.width != 0 {
		return errors.Validation("requested slot is not aligned to the booking grid", nil)
	}
	return nil
}

// upsertPatient resolves the patient by contact identity, refreshing
// mutable fields in place, or creates a new record.
func (s *Service) upsertPatient(ctx context.Context, req *model.BookAppointmentRequest) (*model.Patient, error) {
	existing, err := s.patients.FindByContact(ctx, req.PatientEmail, req.PatientPhone)
	if err != nil {
		return nil, errors.Internal(err)
	}

	if existing != nil {
		existing.Name = req.PatientName
		if req.PatientEmail != "" {
			existing.Email = req.PatientEmail
		}
		if req.PatientPhone != "" {
			existing.Phone = req.PatientPhone
		}
		if err := s.patients.Update(ctx, existing); err != nil {
			return nil, errors.Internal(err)
		}
		return existing, nil
	}

	patient := &model.Patient{
		ID:    identifier.NewPatientID(),
		Name:  req.PatientName,
		Email: req.PatientEmail,
		Phone: req.PatientPhone,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, errors.Internal(err)
	}
	return patient, nil
}

// syncCalendar creates the external calendar event. Failures leave the
// placeholder reference in place and report false; the booking stands.
func (s *Service) syncCalendar(ctx context.Context, doctor *model.Doctor, patient *model.Patient, apt *model.Appointment) bool {
	if doctor.CalendarID == "" {
		return false
	}

	event := calendar.Event{
		Summary:     fmt.Sprintf("Appointment: %s", patient.Name),
		Description: apt.Reason,
		Start:       apt.StartTime,
		End:         apt.EndTime,
	}
	if patient.Email != "" {
		event.Attendees = []string{patient.Email}
	}

	eventID, err := s.calendar.CreateEvent(ctx, doctor.CalendarID, event)
	if err != nil {
		s.logger.Error(err, "calendar sync failed", "appointment_id", apt.ID)
		return false
	}

	if err := s.appointments.SetCalendarEventID(ctx, apt.ID, eventID); err != nil {
		s.logger.Error(err, "failed to record calendar event id", "appointment_id", apt.ID)
		return false
	}
	apt.CalendarEventID = eventID
	return true
}

// notify sends the confirmation email. Failures are logged and reported
// as a soft status, never as an error.
func (s *Service) notify(ctx context.Context, patient *model.Patient, apt *model.Appointment) bool {
	if patient.Email == "" {
		return false
	}
	if err := s.email.SendConfirmation(ctx, patient.Email, patient.Name, apt); err != nil {
		s.logger.Error(err, "confirmation email failed", "appointment_id", apt.ID)
		return false
	}
	return true
}
