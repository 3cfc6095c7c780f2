package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Appointment is a confirmed booking over the half-open interval
// [StartTime, EndTime). Doctor and patient display names are denormalized
// so listings do not fan out into joins.
type Appointment struct {
	ID              string            `db:"id" json:"appointmentId"`
	DoctorID        string            `db:"doctor_id" json:"doctorId"`
	PatientID       string            `db:"patient_id" json:"patientId"`
	DoctorName      string            `db:"doctor_name" json:"doctorName"`
	PatientName     string            `db:"patient_name" json:"patientName"`
	Date            string            `db:"date" json:"date"`
	StartTime       time.Time         `db:"start_time" json:"startDateTime"`
	EndTime         time.Time         `db:"end_time" json:"endDateTime"`
	Status          AppointmentStatus `db:"status" json:"status"`
	PaymentStatus   PaymentStatus     `db:"payment_status" json:"paymentStatus"`
	Reason          string            `db:"reason" json:"reason,omitempty"`
	Type            string            `db:"type" json:"appointmentType,omitempty"`
	CalendarEventID string            `db:"calendar_event_id" json:"calendarEventId,omitempty"`
	CreatedAt       time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time         `db:"updated_at" json:"updatedAt"`
}

type BookAppointmentRequest struct {
	DoctorID        string `json:"doctorId" binding:"required"`
	PatientName     string `json:"patientName" binding:"required"`
	PatientEmail    string `json:"patientEmail" binding:"omitempty,email"`
	PatientPhone    string `json:"patientPhone"`
	Date            string `json:"date" binding:"required,bookdate"`
	TimeSlot        string `json:"timeSlot" binding:"required"`
	Reason          string `json:"reason"`
	AppointmentType string `json:"appointmentType"`
}

// BookingResult is a persisted appointment plus the soft statuses of the
// best-effort side effects. A false flag is not an error.
type BookingResult struct {
	Appointment      *Appointment `json:"appointment"`
	CalendarSynced   bool         `json:"calendarSynced"`
	NotificationSent bool         `json:"notificationSent"`
}

// BusyInterval is an externally reported time range during which the
// doctor is unavailable. Transient, never persisted.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
