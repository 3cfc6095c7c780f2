// Package otp issues and checks the 6-digit one-time passcodes used for
// contact verification. Lifecycle per contact: issued, then consumed on
// a correct match, or evicted on expiry or attempt exhaustion.
package otp

import (
	"context"
	"crypto/rand"
	stderrors "errors"
	"fmt"
	"math/big"
	"time"

	"github.com/jwalitptl/booker-api/internal/email"
	"github.com/jwalitptl/booker-api/pkg/errors"
	"github.com/jwalitptl/booker-api/pkg/logger"
)

const (
	DefaultTTL         = 5 * time.Minute
	DefaultMaxAttempts = 5
)

type Service struct {
	store       Store
	emailSvc    email.Service
	ttl         time.Duration
	maxAttempts int
	logger      *logger.Logger

	// now is swappable so expiry can be tested without waiting.
	now func() time.Time
}

func NewService(store Store, emailSvc email.Service, ttl time.Duration, maxAttempts int, l *logger.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Service{
		store:       store,
		emailSvc:    emailSvc,
		ttl:         ttl,
		maxAttempts: maxAttempts,
		logger:      l,
		now:         time.Now,
	}
}

// Issue generates a fresh code for the contact, replacing any previous
// one, and mails it. A send failure invalidates the code so a caller
// never has to guess whether one is in flight.
func (s *Service) Issue(ctx context.Context, contact string) error {
	code, err := generateCode()
	if err != nil {
		return errors.Internal(fmt.Errorf("failed to generate passcode: %w", err))
	}

	rec := Record{
		Code:      code,
		ExpiresAt: s.now().Add(s.ttl),
		Attempts:  0,
	}
	if err := s.store.Put(ctx, contact, rec, s.ttl); err != nil {
		return errors.Internal(err)
	}

	if err := s.emailSvc.SendPasscode(ctx, contact, code, s.ttl); err != nil {
		_ = s.store.Delete(ctx, contact)
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return appErr
		}
		return errors.Internal(fmt.Errorf("failed to send passcode: %w", err))
	}

	s.logger.Info("passcode issued", "contact", contact)
	return nil
}

// Verify consumes the code on a correct, unexpired, under-budget match.
// Wrong guesses burn an attempt; the record is evicted on expiry or when
// the budget runs out.
func (s *Service) Verify(ctx context.Context, contact, code string) error {
	rec, ok, err := s.store.Get(ctx, contact)
	if err != nil {
		return errors.Internal(err)
	}
	if !ok {
		return errors.Validation("no verification code issued for this contact", nil)
	}

	if s.now().After(rec.ExpiresAt) {
		_ = s.store.Delete(ctx, contact)
		return errors.Validation("verification code expired", nil)
	}

	if rec.Code != code {
		rec.Attempts++
		if rec.Attempts >= s.maxAttempts {
			_ = s.store.Delete(ctx, contact)
			return errors.Validation("too many incorrect attempts", nil)
		}
		remaining := rec.ExpiresAt.Sub(s.now())
		if err := s.store.Put(ctx, contact, rec, remaining); err != nil {
			return errors.Internal(err)
		}
		return errors.Validation("incorrect verification code", nil)
	}

	if err := s.store.Delete(ctx, contact); err != nil {
		return errors.Internal(err)
	}
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
