package patient

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
	patients map[string]*model.Patient
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{patients: make(map[string]*model.Patient)}
}

func (f *fakeRepo) Create(_ context.Context, p *model.Patient) error {
	f.patients[p.ID] = p
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id string) (*model.Patient, error) {
	p, ok := f.patients[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) Update(_ context.Context, p *model.Patient) error {
	if _, ok := f.patients[p.ID]; !ok {
		return sql.ErrNoRows
	}
	f.patients[p.ID] = p
	return nil
}

func (f *fakeRepo) FindByContact(_ context.Context, email, phone string) (*model.Patient, error) {
	for _, p := range f.patients {
		if (email != "" && p.Email == email) || (phone != "" && p.Phone == phone) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func TestRegisterCreatesNewPatient(t *testing.T) {
	svc := NewService(newFakeRepo())

	p, err := svc.Register(context.Background(), &model.RegisterPatientRequest{
		Name:  "Asha Verma",
		Email: "asha@example.com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Asha Verma", p.Name)
	assert.Equal(t, "asha@example.com", p.Email)
}

func TestRegisterTwiceSameEmailIsIdempotent(t *testing.T) {
	svc := NewService(newFakeRepo())

	first, err := svc.Register(context.Background(), &model.RegisterPatientRequest{
		Name:  "Asha Verma",
		Email: "asha@example.com",
	})
	require.NoError(t, err)

	second, err := svc.Register(context.Background(), &model.RegisterPatientRequest{
		Name:  "Asha V. Verma",
		Email: "asha@example.com",
		Phone: "+911234567890",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Asha V. Verma", second.Name)
	assert.Equal(t, "+911234567890", second.Phone)
}

func TestRegisterMatchesByPhone(t *testing.T) {
	svc := NewService(newFakeRepo())

	first, err := svc.Register(context.Background(), &model.RegisterPatientRequest{
		Name:  "Asha Verma",
		Phone: "+911234567890",
	})
	require.NoError(t, err)

	second, err := svc.Register(context.Background(), &model.RegisterPatientRequest{
		Name:  "Asha Verma",
		Phone: "+911234567890",
		Email: "asha@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "asha@example.com", second.Email)
}

func TestRegisterRequiresContact(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Register(context.Background(), &model.RegisterPatientRequest{Name: "Asha Verma"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrValidation, errors.CodeOf(err))
}

func TestGetUnknownPatientIsNotFound(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Get(context.Background(), "P-missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
