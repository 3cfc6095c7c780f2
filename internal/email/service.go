package email

import (
	"context"
	"time"

	"github.com/jwalitptl/booker-api/internal/model"
	"github.com/jwalitptl/booker-api/pkg/errors"
)

type Service interface {
	// SendConfirmation mails the booking confirmation for a persisted
	// appointment.
	SendConfirmation(ctx context.Context, to, name string, apt *model.Appointment) error
	// SendPasscode mails a one-time verification code.
	SendPasscode(ctx context.Context, to, code string, ttl time.Duration) error
}

// Unconfigured is the Service used when no SMTP transport is
// configured. Every send reports a configuration error at the point of
// use; callers decide whether that is fatal or a soft status.
type Unconfigured struct{}

func (Unconfigured) SendConfirmation(context.Context, string, string, *model.Appointment) error {
	return errors.Configuration("smtp transport not configured", nil)
}

func (Unconfigured) SendPasscode(context.Context, string, string, time.Duration) error {
	return errors.Configuration("smtp transport not configured", nil)
}
