package doctor

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/jwalitptl/booker-api/internal/model"
	"github.com/jwalitptl/booker-api/internal/repository"
	"github.com/jwalitptl/booker-api/internal/scheduling"
	"github.com/jwalitptl/booker-api/pkg/errors"
	"github.com/jwalitptl/booker-api/pkg/identifier"
)

type Service struct {
	repo repository.DoctorRepository
}

func NewService(repo repository.DoctorRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	availability, err := normalizeAvailability(req.Availability)
	if err != nil {
		return nil, errors.Validation(err.Error(), err)
	}

	doctor := &model.Doctor{
		ID:           identifier.NewDoctorID(),
		Name:         req.Name,
		Specialty:    req.Specialty,
		Email:        req.Email,
		Phone:        req.Phone,
		CalendarID:   req.CalendarID,
		Availability: availability,
	}
	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, errors.Internal(err)
	}
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("doctor", err)
	}
	if err != nil {
		return nil, errors.Internal(err)
	}
	return doctor, nil
}

func (s *Service) Update(ctx context.Context, id string, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		doctor.Name = *req.Name
	}
	if req.Specialty != nil {
		doctor.Specialty = *req.Specialty
	}
	if req.Email != nil {
		doctor.Email = *req.Email
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.CalendarID != nil {
		doctor.CalendarID = *req.CalendarID
	}
	if req.Availability != nil {
		availability, err := normalizeAvailability(*req.Availability)
		if err != nil {
			return nil, errors.Validation(err.Error(), err)
		}
		doctor.Availability = availability
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("doctor", err)
		}
		return nil, errors.Internal(err)
	}
	return doctor, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NotFound("doctor", err)
	}
	if err != nil {
		return errors.Internal(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return doctors, nil
}

func (s *Service) ListBySpecialty(ctx context.Context, specialty string) ([]*model.Doctor, error) {
	doctors, err := s.repo.ListBySpecialty(ctx, specialty)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return doctors, nil
}

func (s *Service) ListSpecialties(ctx context.Context) ([]string, error) {
	specialties, err := s.repo.ListSpecialties(ctx)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return specialties, nil
}

// normalizeAvailability lowercases the weekday keys and enforces the
// template invariant: an available day carries a valid HH:MM window
// with start before end.
func normalizeAvailability(in model.WeeklyAvailability) (model.WeeklyAvailability, error) {
	out := make(model.WeeklyAvailability, len(in))
	valid := make(map[string]struct{}, len(model.Weekdays))
	for _, d := range model.Weekdays {
		valid[d] = struct{}{}
	}

	for day, tmpl := range in {
		key := strings.ToLower(strings.TrimSpace(day))
		if _, ok := valid[key]; !ok {
			return nil, fmt.Errorf("unknown weekday %q", day)
		}
		if tmpl.Available {
			start, err := scheduling.ParseClock(tmpl.Start)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid start time %q", key, tmpl.Start)
			}
			end, err := scheduling.ParseClock(tmpl.End)
			if err != nil {
				return nil, fmt.Errorf("%s: invalid end time %q", key, tmpl.End)
			}
			if start >= end {
				return nil, fmt.Errorf("%s: start %s must precede end %s", key, tmpl.Start, tmpl.End)
			}
		}
		out[key] = tmpl
	}
	return out, nil
}
