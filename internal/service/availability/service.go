// Package availability computes the bookable slots for a doctor and a
// date from the working-hours template, the external calendar's busy
// intervals, and the stored appointments.
package availability

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/jwalitptl/booker-api/internal/calendar"
	"github.com/jwalitptl/booker-api/internal/model"
	"github.com/jwalitptl/booker-api/internal/repository"
	"github.com/jwalitptl/booker-api/internal/scheduling"
	"github.com/jwalitptl/booker-api/pkg/errors"
	"github.com/jwalitptl/booker-api/pkg/logger"
)

type Service struct {
	doctors      repository.DoctorRepository
	appointments repository.AppointmentRepository
	calendar     calendar.Service
	width        time.Duration
	loc          *time.Location
	logger       *logger.Logger
}

func NewService(
	doctors repository.DoctorRepository,
	appointments repository.AppointmentRepository,
	cal calendar.Service,
	width time.Duration,
	loc *time.Location,
	l *logger.Logger,
) *Service {
	return &Service{
		doctors:      doctors,
		appointments: appointments,
		calendar:     cal,
		width:        width,
		loc:          loc,
		logger:       l,
	}
}

// GetSlots returns the day's candidate slots for a doctor. An
// unavailable day short-circuits before any external call. A calendar
// failure degrades softly: busy intervals are treated as empty and the
// response carries the degraded flag.
func (s *Service) GetSlots(ctx context.Context, doctorID, dateStr string) (*model.AvailabilityResponse, error) {
	date, err := scheduling.ParseDate(dateStr, s.loc)
	if err != nil {
		return nil, errors.Validation("invalid date, expected YYYY-MM-DD", err)
	}

	doctor, err := s.doctors.Get(ctx, doctorID)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("doctor", err)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}

	resp := &model.AvailabilityResponse{
		Date:     dateStr,
		DoctorID: doctorID,
		Slots:    []model.Slot{},
	}

	day := doctor.Availability.ForDay(date.Weekday())
	if !day.Available {
		return resp, nil
	}

	dayEnd := date.Add(24 * time.Hour)

	var busy []model.BusyInterval
	if doctor.CalendarID != "" {
		busy, err = s.calendar.FreeBusy(ctx, doctor.CalendarID, date, dayEnd)
		if err != nil {
			s.logger.Error(err, "free/busy query degraded", "doctor_id", doctorID, "date", dateStr)
			busy = nil
			resp.CalendarDegraded = true
		}
	}

	appointments, err := s.appointments.ListForDoctorRange(ctx, doctorID, date, dayEnd)
	if err != nil {
		return nil, errors.Internal(err)
	}

	slots, err := scheduling.GenerateSlots(date, day.Start, day.End, s.width, busy, appointments)
	if err != nil {
		return nil, errors.Internal(err)
	}

	resp.Slots = slots
	return resp, nil
}
