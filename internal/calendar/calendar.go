// Package calendar wraps the external calendar collaborator: free/busy
// queries feeding availability, and best-effort event writes at booking
// and cancellation time.
package calendar

import (
	"context"
	"time"

	"github.com/jwalitptl/booker-api/internal/model"
	"github.com/jwalitptl/booker-api/pkg/errors"
)

// Event is the provider-independent shape of an appointment pushed to
// the external calendar.
type Event struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Attendees   []string
}

type Service interface {
	// FreeBusy returns the busy intervals reported for calendarID
	// within [from, to).
	FreeBusy(ctx context.Context, calendarID string, from, to time.Time) ([]model.BusyInterval, error)
	// CreateEvent inserts an event and returns its provider event id.
	CreateEvent(ctx context.Context, calendarID string, event Event) (string, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

// Unconfigured is the Service used when no calendar credentials are
// present. Every call fails with a configuration error, which callers
// downgrade to soft statuses.
type Unconfigured struct{}

func (Unconfigured) FreeBusy(context.Context, string, time.Time, time.Time) ([]model.BusyInterval, error) {
	return nil, errors.Configuration("calendar credentials not configured", nil)
}

func (Unconfigured) CreateEvent(context.Context, string, Event) (string, error) {
	return "", errors.Configuration("calendar credentials not configured", nil)
}

func (Unconfigured) DeleteEvent(context.Context, string, string) error {
	return errors.Configuration("calendar credentials not configured", nil)
}
