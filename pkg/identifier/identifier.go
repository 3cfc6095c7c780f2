// Package identifier generates the human-legible prefixed ids used in
// API payloads: doctors D-xxxxxxxx, patients P-xxxxxxxx, appointments A-xxxxxxxx.
package identifier

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Record prefixes.
const (
	DoctorPrefix      = "D"
	PatientPrefix     = "P"
	AppointmentPrefix = "A"
	RequestPrefix     = "R"
)

// New returns a prefixed id built from the first 8 hex characters of a
// random UUID, e.g. "D-1a2b3c4d".
func New(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s-%s", prefix, raw[:8])
}

// NewDoctorID returns a fresh doctor id.
func NewDoctorID() string { return New(DoctorPrefix) }

// NewPatientID returns a fresh patient id.
func NewPatientID() string { return New(PatientPrefix) }

// NewAppointmentID returns a fresh appointment id.
func NewAppointmentID() string { return New(AppointmentPrefix) }

// NewRequestID returns a correlation id for one HTTP request.
func NewRequestID() string { return New(RequestPrefix) }
