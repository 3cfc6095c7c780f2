package booking

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booker-api/internal/calendar"
	"github.com/jwalitptl/booker-api/internal/email"
	"github.com/jwalitptl/booker-api/internal/model"
	"github.com/jwalitptl/booker-api/internal/repository"
	"github.com/jwalitptl/booker-api/internal/scheduling"
	"github.com/jwalitptl/booker-api/pkg/errors"
	"github.com/jwalitptl/booker-api/pkg/logger"
)

var ist = scheduling.Zone(scheduling.DefaultOffsetMinutes)

type fakeDoctorRepo struct {
	doctors map[string]*model.Doctor
}

func (f *fakeDoctorRepo) Create(_ context.Context, d *model.Doctor) error { f.doctors[d.ID] = d; return nil }
func (f *fakeDoctorRepo) Get(_ context.Context, id string) (*model.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return d, nil
}
func (f *fakeDoctorRepo) Update(_ context.Context, d *model.Doctor) error { f.doctors[d.ID] = d; return nil }
func (f *fakeDoctorRepo) Delete(_ context.Context, id string) error       { delete(f.doctors, id); return nil }
func (f *fakeDoctorRepo) List(context.Context) ([]*model.Doctor, error)   { return nil, nil }
func (f *fakeDoctorRepo) ListBySpecialty(context.Context, string) ([]*model.Doctor, error) {
	return nil, nil
}
func (f *fakeDoctorRepo) ListSpecialties(context.Context) ([]string, error) { return nil, nil }

type fakePatientRepo struct {
	mu       sync.Mutex
	patients map[string]*model.Patient
	updates  int
}

func (f *fakePatientRepo) Create(_ context.Context, p *model.Patient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patients[p.ID] = p
	return nil
}
func (f *fakePatientRepo) Get(_ context.Context, id string) (*model.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.patients[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}
func (f *fakePatientRepo) Update(_ context.Context, p *model.Patient) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	f.patients[p.ID] = p
	return nil
}
func (f *fakePatientRepo) FindByContact(_ context.Context, email, phone string) (*model.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.patients {
		if (email != "" && p.Email == email) || (phone != "" && p.Phone == phone) {
			return p, nil
		}
	}
	return nil, nil
}

// fakeApptRepo mirrors the transactional check-and-insert of the real
// store with a mutex, so concurrent Book calls race realistically.
type fakeApptRepo struct {
	mu           sync.Mutex
	appointments map[string]*model.Appointment
}

func newFakeApptRepo() *fakeApptRepo {
	return &fakeApptRepo{appointments: make(map[string]*model.Appointment)}
}

func (f *fakeApptRepo) CreateIfFree(_ context.Context, apt *model.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.appointments {
		if existing.DoctorID != apt.DoctorID || existing.Status == model.AppointmentStatusCancelled {
			continue
		}
		if scheduling.Overlaps(apt.StartTime, apt.EndTime, existing.StartTime, existing.EndTime) {
			return repository.ErrSlotTaken
		}
	}
	cp := *apt
	f.appointments[apt.ID] = &cp
	return nil
}

func (f *fakeApptRepo) Get(_ context.Context, id string) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	apt, ok := f.appointments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *apt
	return &cp, nil
}

func (f *fakeApptRepo) ListForDoctorRange(_ context.Context, doctorID string, from, to time.Time) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Appointment
	for _, apt := range f.appointments {
		if apt.DoctorID == doctorID && apt.Status != model.AppointmentStatusCancelled &&
			scheduling.Overlaps(apt.StartTime, apt.EndTime, from, to) {
			cp := *apt
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeApptRepo) ListForPatient(_ context.Context, patientID string) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Appointment
	for _, apt := range f.appointments {
		if apt.PatientID == patientID {
			cp := *apt
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeApptRepo) Cancel(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	apt, ok := f.appointments[id]
	if !ok || apt.Status == model.AppointmentStatusCancelled {
		return sql.ErrNoRows
	}
	apt.Status = model.AppointmentStatusCancelled
	return nil
}

func (f *fakeApptRepo) SetCalendarEventID(_ context.Context, id, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	apt, ok := f.appointments[id]
	if !ok {
		return sql.ErrNoRows
	}
	apt.CalendarEventID = eventID
	return nil
}

type fakeCalendar struct {
	busy        []model.BusyInterval
	freeBusyErr error
	createErr   error
	created     int
	deleted     []string
	deleteErr   error
}

func (f *fakeCalendar) FreeBusy(context.Context, string, time.Time, time.Time) ([]model.BusyInterval, error) {
	return f.busy, f.freeBusyErr
}

func (f *fakeCalendar) CreateEvent(context.Context, string, calendar.Event) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created++
	return "evt-123", nil
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, _, eventID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, eventID)
	return nil
}

type fakeEmail struct {
	confirmations int
	fail          bool
}

func (f *fakeEmail) SendConfirmation(_ context.Context, _, _ string, _ *model.Appointment) error {
	if f.fail {
		return assert.AnError
	}
	f.confirmations++
	return nil
}

func (f *fakeEmail) SendPasscode(context.Context, string, string, time.Duration) error { return nil }

type fixture struct {
	svc      *Service
	doctors  *fakeDoctorRepo
	patients *fakePatientRepo
	appts    *fakeApptRepo
	cal      *fakeCalendar
	mail     *fakeEmail
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	doctors := &fakeDoctorRepo{doctors: map[string]*model.Doctor{
		"D-11111111": {
			ID:         "D-11111111",
			Name:       "Dr. Rao",
			Specialty:  "cardiology",
			CalendarID: "cal-rao",
			Availability: model.WeeklyAvailability{
				"monday": {Available: true, Start: "09:00", End: "11:00"},
			},
		},
	}}
	patients := &fakePatientRepo{patients: make(map[string]*model.Patient)}
	appts := newFakeApptRepo()
	cal := &fakeCalendar{}
	mail := &fakeEmail{}

	svc := NewService(doctors, patients, appts, cal, mail, 30*time.Minute, ist, logger.NewLogger(nil))
	return &fixture{svc: svc, doctors: doctors, patients: patients, appts: appts, cal: cal, mail: mail}
}

func bookReq() *model.BookAppointmentRequest {
	return &model.BookAppointmentRequest{
		DoctorID:     "D-11111111",
		PatientName:  "Asha Mehta",
		PatientEmail: "asha@example.com",
		Date:         "2025-03-03", // a Monday
		TimeSlot:     "09:30 AM - 10:00 AM",
		Reason:       "follow-up",
	}
}

func TestBookSuccess(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)

	apt := result.Appointment
	assert.Equal(t, model.AppointmentStatusConfirmed, apt.Status)
	assert.Equal(t, model.PaymentStatusPending, apt.PaymentStatus)
	assert.Equal(t, "Dr. Rao", apt.DoctorName)
	assert.Equal(t, "Asha Mehta", apt.PatientName)
	assert.Equal(t, "09:30", apt.StartTime.Format("15:04"))
	assert.Equal(t, "10:00", apt.EndTime.Format("15:04"))
	assert.True(t, result.CalendarSynced)
	assert.True(t, result.NotificationSent)
	assert.Equal(t, "evt-123", apt.CalendarEventID)
	assert.Equal(t, 1, f.mail.confirmations)
}

func TestBookUnknownDoctor(t *testing.T) {
	f := newFixture(t)

	req := bookReq()
	req.DoctorID = "D-00000000"
	_, err := f.svc.Book(context.Background(), req)
	assert.True(t, errors.IsNotFound(err))
}

func TestBookMissingContact(t *testing.T) {
	f := newFixture(t)

	req := bookReq()
	req.PatientEmail = ""
	req.PatientPhone = ""
	_, err := f.svc.Book(context.Background(), req)
	assert.Equal(t, errors.ErrValidation, errors.CodeOf(err))
}

func TestBookBadSlotLabel(t *testing.T) {
	f := newFixture(t)

	for _, slot := range []string{"9:30-10:00", "garbage", "09:30 AM", ""} {
		req := bookReq()
		req.TimeSlot = slot
		_, err := f.svc.Book(context.Background(), req)
		assert.Equal(t, errors.ErrValidation, errors.CodeOf(err), "slot %q", slot)
	}
}

func TestBookOutsideWorkingHours(t *testing.T) {
	f := newFixture(t)

	req := bookReq()
	req.TimeSlot = "11:30 AM - 12:00 PM"
	_, err := f.svc.Book(context.Background(), req)
	assert.Equal(t, errors.ErrValidation, errors.CodeOf(err))
}

func TestBookOffGridSlot(t *testing.T) {
	f := newFixture(t)

	req := bookReq()
	req.TimeSlot = "09:45 AM - 10:15 AM"
	_, err := f.svc.Book(context.Background(), req)
	assert.Equal(t, errors.ErrValidation, errors.CodeOf(err))
}

func TestBookConflictAtCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Book(ctx, bookReq())
	require.NoError(t, err)

	req := bookReq()
	req.PatientName = "Ravi Kumar"
	req.PatientEmail = "ravi@example.com"
	_, err = f.svc.Book(ctx, req)
	assert.True(t, errors.IsConflict(err))
	assert.Len(t, f.appts.appointments, 1)
}

func TestBookConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)

	const racers = 8
	var wg sync.WaitGroup
	results := make(chan error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := bookReq()
			req.PatientEmail = ""
			req.PatientPhone = "98000000" + string(rune('0'+i))
			_, err := f.svc.Book(context.Background(), req)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	wins, conflicts := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.IsConflict(err):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, racers-1, conflicts)
	assert.Len(t, f.appts.appointments, 1)
}

func TestBookEmailFailureIsSoft(t *testing.T) {
	f := newFixture(t)
	f.mail.fail = true

	result, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)
	assert.False(t, result.NotificationSent)
	assert.Equal(t, model.AppointmentStatusConfirmed, result.Appointment.Status)
	assert.Len(t, f.appts.appointments, 1)
}

func TestBookWithoutMailTransportIsSoft(t *testing.T) {
	f := newFixture(t)
	f.svc = NewService(f.doctors, f.patients, f.appts, f.cal, email.Unconfigured{}, 30*time.Minute, ist, logger.NewLogger(nil))

	result, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)
	assert.False(t, result.NotificationSent)
	assert.Equal(t, model.AppointmentStatusConfirmed, result.Appointment.Status)
	assert.Len(t, f.appts.appointments, 1)
}

func TestBookCalendarFailureIsSoft(t *testing.T) {
	f := newFixture(t)
	f.cal.createErr = assert.AnError

	result, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)
	assert.False(t, result.CalendarSynced)
	assert.Equal(t, PlaceholderEventRef, result.Appointment.CalendarEventID)
	assert.True(t, result.NotificationSent)
}

func TestBookDoctorWithoutCalendar(t *testing.T) {
	f := newFixture(t)
	f.doctors.doctors["D-11111111"].CalendarID = ""

	result, err := f.svc.Book(context.Background(), bookReq())
	require.NoError(t, err)
	assert.False(t, result.CalendarSynced)
	assert.Equal(t, 0, f.cal.created)
}

func TestBookUpsertsPatientByContact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Book(ctx, bookReq())
	require.NoError(t, err)

	req := bookReq()
	req.PatientName = "Asha M."
	req.TimeSlot = "10:00 AM - 10:30 AM"
	second, err := f.svc.Book(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.Appointment.PatientID, second.Appointment.PatientID)
	assert.Len(t, f.patients.patients, 1)
	assert.Equal(t, "Asha M.", f.patients.patients[second.Appointment.PatientID].Name)
}

func TestCancelLogicalDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.svc.Book(ctx, bookReq())
	require.NoError(t, err)
	id := result.Appointment.ID

	require.NoError(t, f.svc.Cancel(ctx, id))

	apt, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, apt.Status)

	// Released external event, best-effort.
	assert.Equal(t, []string{"evt-123"}, f.cal.deleted)

	// The slot is bookable again.
	req := bookReq()
	req.PatientEmail = "ravi@example.com"
	req.PatientName = "Ravi Kumar"
	_, err = f.svc.Book(ctx, req)
	assert.NoError(t, err)
}

func TestCancelTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.svc.Book(ctx, bookReq())
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, result.Appointment.ID))
	err = f.svc.Cancel(ctx, result.Appointment.ID)
	assert.True(t, errors.IsConflict(err))
}

func TestCancelUnknownAppointment(t *testing.T) {
	f := newFixture(t)
	err := f.svc.Cancel(context.Background(), "A-00000000")
	assert.True(t, errors.IsNotFound(err))
}

func TestCancelCalendarFailureIsSoft(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.svc.Book(ctx, bookReq())
	require.NoError(t, err)

	f.cal.deleteErr = assert.AnError
	assert.NoError(t, f.svc.Cancel(ctx, result.Appointment.ID))
}
