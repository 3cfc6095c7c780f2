package email

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/booker-api/internal/model"
	"github.com/jwalitptl/booker-api/pkg/errors"
)

// SMTPConfig configures the outbound mail transport.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Configured reports whether the transport can be used at all.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Port != 0 && c.From != ""
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(
	`Dear {{.Name}},

Your appointment with {{.DoctorName}} is confirmed.

Date: {{.Date}}
Time: {{.Slot}}
Booking reference: {{.AppointmentID}}

Please arrive 10 minutes early. Reply to this email if you need to reschedule.
`))

var passcodeTmpl = template.Must(template.New("passcode").Parse(
	`Your verification code is {{.Code}}.

It expires in {{.Minutes}} minutes. If you did not request this code, ignore this email.
`))

type gomailService struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

// NewGomailService builds the SMTP-backed sender. Missing configuration
// fails fast here rather than at the first send.
func NewGomailService(cfg SMTPConfig) (Service, error) {
	if !cfg.Configured() {
		return nil, errors.Configuration("smtp transport not configured", nil)
	}
	return &gomailService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}, nil
}

func (s *gomailService) SendConfirmation(ctx context.Context, to, name string, apt *model.Appointment) error {
	var body bytes.Buffer
	err := confirmationTmpl.Execute(&body, map[string]interface{}{
		"Name":          name,
		"DoctorName":    apt.DoctorName,
		"Date":          apt.Date,
		"Slot":          fmt.Sprintf("%s - %s", apt.StartTime.Format("03:04 PM"), apt.EndTime.Format("03:04 PM")),
		"AppointmentID": apt.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to render confirmation: %w", err)
	}
	return s.send(ctx, to, "Appointment confirmed", body.String())
}

func (s *gomailService) SendPasscode(ctx context.Context, to, code string, ttl time.Duration) error {
	var body bytes.Buffer
	err := passcodeTmpl.Execute(&body, map[string]interface{}{
		"Code":    code,
		"Minutes": int(ttl.Minutes()),
	})
	if err != nil {
		return fmt.Errorf("failed to render passcode: %w", err)
	}
	return s.send(ctx, to, "Your verification code", body.String())
}

func (s *gomailService) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
