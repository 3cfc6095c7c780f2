package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/jwalitptl/booker-api/internal/model"
)

// GoogleConfig holds the OAuth2 offline credentials for the clinic's
// calendar account. The refresh token is exchanged for access tokens on
// demand by the oauth2 token source.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Configured reports whether all required credentials are present.
func (c GoogleConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

type googleService struct {
	svc *gcal.Service
}

// NewGoogleService builds a calendar Service backed by the Google
// Calendar API, authenticating with a refresh token.
func NewGoogleService(ctx context.Context, cfg GoogleConfig) (Service, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("incomplete google calendar credentials")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gcal.CalendarScope},
	}
	source := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	svc, err := gcal.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar client: %w", err)
	}
	return &googleService{svc: svc}, nil
}

func (g *googleService) FreeBusy(ctx context.Context, calendarID string, from, to time.Time) ([]model.BusyInterval, error) {
	req := &gcal.FreeBusyRequest{
		TimeMin: from.Format(time.RFC3339),
		TimeMax: to.Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: calendarID}},
	}

	res, err := g.svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("free/busy query failed: %w", err)
	}

	cal, ok := res.Calendars[calendarID]
	if !ok {
		return nil, fmt.Errorf("calendar %s missing from free/busy response", calendarID)
	}

	intervals := make([]model.BusyInterval, 0, len(cal.Busy))
	for _, period := range cal.Busy {
		start, err := time.Parse(time.RFC3339, period.Start)
		if err != nil {
			return nil, fmt.Errorf("invalid busy start %q: %w", period.Start, err)
		}
		end, err := time.Parse(time.RFC3339, period.End)
		if err != nil {
			return nil, fmt.Errorf("invalid busy end %q: %w", period.End, err)
		}
		intervals = append(intervals, model.BusyInterval{Start: start, End: end})
	}
	return intervals, nil
}

func (g *googleService) CreateEvent(ctx context.Context, calendarID string, event Event) (string, error) {
	ev := &gcal.Event{
		Summary:     event.Summary,
		Description: event.Description,
		Start:       &gcal.EventDateTime{DateTime: event.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: event.End.Format(time.RFC3339)},
	}
	for _, attendee := range event.Attendees {
		ev.Attendees = append(ev.Attendees, &gcal.EventAttendee{Email: attendee})
	}

	created, err := g.svc.Events.Insert(calendarID, ev).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("event insert failed: %w", err)
	}
	return created.Id, nil
}

func (g *googleService) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if err := g.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("event delete failed: %w", err)
	}
	return nil
}
