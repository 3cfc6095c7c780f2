package patient

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/jwalitptl/booker-api/internal/model"
	"github.com/jwalitptl/booker-api/internal/repository"
	"github.com/jwalitptl/booker-api/pkg/errors"
	"github.com/jwalitptl/booker-api/pkg/identifier"
)

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

// Register is an upsert by contact identity: an existing patient
// matching the email or phone is refreshed in place, otherwise a new
// record is created. Registering twice with the same email is
// idempotent and never duplicates.
func (s *Service) Register(ctx context.Context, req *model.RegisterPatientRequest) (*model.Patient, error) {
	if req.Email == "" && req.Phone == "" {
		return nil, errors.Validation("at least one of email or phone is required", nil)
	}

	existing, err := s.repo.FindByContact(ctx, req.Email, req.Phone)
	if err != nil {
		return nil, errors.Internal(err)
	}

	if existing != nil {
		existing.Name = req.Name
		if req.Email != "" {
			existing.Email = req.Email
		}
		if req.Phone != "" {
			existing.Phone = req.Phone
		}
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, errors.Internal(err)
		}
		return existing, nil
	}

	patient := &model.Patient{
		ID:    identifier.NewPatientID(),
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, errors.Internal(err)
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("patient", err)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}
	return patient, nil
}
