package doctor

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/booker-api/internal/model"
	"github.com/jwalitptl/booker-api/pkg/errors"
)

type fakeRepo struct {
	doctors map[string]*model.Doctor
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{doctors: make(map[string]*model.Doctor)}
}

func (f *fakeRepo) Create(_ context.Context, d *model.Doctor) error {
	f.doctors[d.ID] = d
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (*model.Doctor, error) {
	d, ok := f.doctors[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (f *fakeRepo) Update(_ context.Context, d *model.Doctor) error {
	if _, ok := f.doctors[d.ID]; !ok {
		return sql.ErrNoRows
	}
	f.doctors[d.ID] = d
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.doctors[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.doctors, id)
	return nil
}

func (f *fakeRepo) List(_ context.Context) ([]*model.Doctor, error) {
	out := make([]*model.Doctor, 0, len(f.doctors))
	for _, d := range f.doctors {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeRepo) ListBySpecialty(_ context.Context, specialty string) ([]*model.Doctor, error) {
	var out []*model.Doctor
	for _, d := range f.doctors {
		if d.Specialty == specialty {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListSpecialties(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, d := range f.doctors {
		if _, ok := seen[d.Specialty]; !ok {
			seen[d.Specialty] = struct{}{}
			out = append(out, d.Specialty)
		}
	}
	return out, nil
}

func TestCreateNormalizesWeekdayKeys(t *testing.T) {
	svc := NewService(newFakeRepo())

	doctor, err := svc.Create(context.Background(), &model.CreateDoctorRequest{
		Name:      "Dr. Mehta",
		Specialty: "cardiology",
		Availability: model.WeeklyAvailability{
			"Monday":  {Available: true, Start: "09:00", End: "17:00"},
			" FRIDAY": {Available: false},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, doctor.Availability, "monday")
	assert.Contains(t, doctor.Availability, "friday")
	assert.NotContains(t, doctor.Availability, "Monday")
	assert.NotEmpty(t, doctor.ID)
}

func TestCreateRejectsBadTemplates(t *testing.T) {
	svc := NewService(newFakeRepo())

	cases := []struct {
		name         string
		availability model.WeeklyAvailability
	}{
		{"unknown day", model.WeeklyAvailability{"funday": {Available: true, Start: "09:00", End: "10:00"}}},
		{"bad start clock", model.WeeklyAvailability{"monday": {Available: true, Start: "9am", End: "10:00"}}},
		{"missing end", model.WeeklyAvailability{"monday": {Available: true, Start: "09:00"}}},
		{"inverted window", model.WeeklyAvailability{"monday": {Available: true, Start: "17:00", End: "09:00"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), &model.CreateDoctorRequest{
				Name:         "Dr. Mehta",
				Specialty:    "cardiology",
				Availability: tc.availability,
			})
			require.Error(t, err)
			assert.Equal(t, errors.ErrValidation, errors.CodeOf(err))
		})
	}
}

func TestCreateAllowsUnavailableDayWithoutWindow(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), &model.CreateDoctorRequest{
		Name:      "Dr. Mehta",
		Specialty: "cardiology",
		Availability: model.WeeklyAvailability{
			"sunday": {Available: false},
		},
	})
	assert.NoError(t, err)
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	doctor, err := svc.Create(context.Background(), &model.CreateDoctorRequest{
		Name:      "Dr. Mehta",
		Specialty: "cardiology",
		Email:     "mehta@clinic.example",
	})
	require.NoError(t, err)

	newName := "Dr. A. Mehta"
	updated, err := svc.Update(context.Background(), doctor.ID, &model.UpdateDoctorRequest{
		Name: &newName,
	})
	require.NoError(t, err)

	assert.Equal(t, "Dr. A. Mehta", updated.Name)
	assert.Equal(t, "cardiology", updated.Specialty)
	assert.Equal(t, "mehta@clinic.example", updated.Email)
}

func TestGetUnknownDoctorIsNotFound(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Get(context.Background(), "D-missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestDeleteUnknownDoctorIsNotFound(t *testing.T) {
	svc := NewService(newFakeRepo())

	err := svc.Delete(context.Background(), "D-missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
