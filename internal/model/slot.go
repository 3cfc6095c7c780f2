package model

// Slot is a fixed-width candidate appointment window within a doctor's
// working day. Display round-trips through booking requests; the 24-hour
// and ISO fields are the machine-readable mirror.
type Slot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Display   string `json:"displayLabel"`
	StartISO  string `json:"startISO"`
	EndISO    string `json:"endISO"`
	Available bool   `json:"available"`
}

// AvailabilityResponse carries the computed slots plus a soft flag set
// when the external calendar could not be consulted.
type AvailabilityResponse struct {
	Date             string `json:"date"`
	DoctorID         string `json:"doctorId"`
	Slots            []Slot `json:"slots"`
	CalendarDegraded bool   `json:"calendarDegraded,omitempty"`
}
