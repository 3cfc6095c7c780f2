package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Weekday keys used in WeeklyAvailability. A missing day means the
// doctor is unavailable that day.
var Weekdays = []string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// DayAvailability is the per-weekday working-hours template entry.
// When Available is true, Start and End hold "HH:MM" clock strings
// with Start < End.
type DayAvailability struct {
	Available bool   `json:"available"`
	Start     string `json:"start,omitempty"`
	End       string `json:"end,omitempty"`
}

// WeeklyAvailability maps lowercase weekday name to that day's template.
// It is a plain value type stored as JSONB.
type WeeklyAvailability map[string]DayAvailability

// ForDay looks up the template for a weekday, treating absent days
// as unavailable.
func (w WeeklyAvailability) ForDay(day time.Weekday) DayAvailability {
	if w == nil {
		return DayAvailability{}
	}
	return w[strings.ToLower(day.String())]
}

// Value implements driver.Valuer for JSONB storage.
func (w WeeklyAvailability) Value() (driver.Value, error) {
	if w == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(w)
}

// Scan implements sql.Scanner for JSONB storage.
func (w *WeeklyAvailability) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*w = WeeklyAvailability{}
		return nil
	case []byte:
		return json.Unmarshal(v, w)
	case string:
		return json.Unmarshal([]byte(v), w)
	default:
		return fmt.Errorf("unsupported weekly availability type %T", src)
	}
}

type Doctor struct {
	ID           string             `db:"id" json:"doctorId"`
	Name         string             `db:"name" json:"name"`
	Specialty    string             `db:"specialty" json:"specialty"`
	Email        string             `db:"email" json:"email,omitempty"`
	Phone        string             `db:"phone" json:"phone,omitempty"`
	CalendarID   string             `db:"calendar_id" json:"calendarId,omitempty"`
	Availability WeeklyAvailability `db:"availability" json:"availability"`
	CreatedAt    time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updatedAt"`
}

type CreateDoctorRequest struct {
	Name         string             `json:"name" binding:"required"`
	Specialty    string             `json:"specialty" binding:"required"`
	Email        string             `json:"email" binding:"omitempty,email"`
	Phone        string             `json:"phone"`
	CalendarID   string             `json:"calendarId"`
	Availability WeeklyAvailability `json:"availability"`
}

type UpdateDoctorRequest struct {
	Name         *string             `json:"name"`
	Specialty    *string             `json:"specialty"`
	Email        *string             `json:"email" binding:"omitempty,email"`
	Phone        *string             `json:"phone"`
	CalendarID   *string             `json:"calendarId"`
	Availability *WeeklyAvailability `json:"availability"`
}

type AvailabilityRequest struct {
	Date string `json:"date" binding:"required,bookdate"`
}
