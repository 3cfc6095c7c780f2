// Package scheduling holds the pure slot arithmetic: tiling a working
// window into fixed-width candidate slots and the single half-open
// overlap predicate shared by availability scans and booking commits.
package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jwalitptl/booker-api/internal/model"
)

const (
	// DateLayout is the calendar-day wire format.
	DateLayout = "2006-01-02"
	// clockLayout is the 24-hour wire format for slot boundaries.
	clockLayout = "15:04"
	// labelLayout is the human display format for one slot boundary.
	labelLayout = "03:04 PM"
	// labelSeparator joins the two boundaries of a display label.
	labelSeparator = " - "

	// DefaultOffsetMinutes is the clinic's fixed civil-time offset (+05:30).
	DefaultOffsetMinutes = 330
)

// Zone returns the fixed civil-time zone for the given offset in minutes.
func Zone(offsetMinutes int) *time.Location {
	return time.FixedZone("clinic", offsetMinutes*60)
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not conflict, so
// back-to-back slots never collide.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ParseClock converts a strict "HH:MM" string to minutes from midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	return h*60 + m, nil
}

// ParseDate parses a calendar day in the given zone.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
}

// GenerateSlots tiles the working window [dayStart, dayEnd) on date into
// consecutive slots of the given width, left to right with no gaps and no
// overlap. A trailing remainder shorter than width is dropped; an inverted
// or zero-length window yields no slots. Each slot is marked unavailable
// when it overlaps a busy interval or a non-cancelled appointment.
func GenerateSlots(date time.Time, dayStart, dayEnd string, width time.Duration, busy []model.BusyInterval, appointments []*model.Appointment) ([]model.Slot, error) {
	startMin, err := ParseClock(dayStart)
	if err != nil {
		return nil, fmt.Errorf("invalid day start: %w", err)
	}
	endMin, err := ParseClock(dayEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid day end: %w", err)
	}

	widthMin := int(width.Minutes())
	if widthMin <= 0 {
		return nil, fmt.Errorf("invalid slot width %v", width)
	}

	// An inverted or zero-length window tiles to nothing.
	if endMin <= startMin {
		return []model.Slot{}, nil
	}

	slots := make([]model.Slot, 0, (endMin-startMin)/widthMin)
	for cur := startMin; cur+widthMin <= endMin; cur += widthMin {
		slotStart := date.Add(time.Duration(cur) * time.Minute)
		slotEnd := slotStart.Add(width)

		available := true
		for _, b := range busy {
			if Overlaps(slotStart, slotEnd, b.Start, b.End) {
				available = false
				break
			}
		}
		if available {
			for _, apt := range appointments {
				if apt.Status == model.AppointmentStatusCancelled {
					continue
				}
				if Overlaps(slotStart, slotEnd, apt.StartTime, apt.EndTime) {
					available = false
					break
				}
			}
		}

		slots = append(slots, model.Slot{
			StartTime: slotStart.Format(clockLayout),
			EndTime:   slotEnd.Format(clockLayout),
			Display:   FormatSlotLabel(slotStart, slotEnd),
			StartISO:  slotStart.Format(time.RFC3339),
			EndISO:    slotEnd.Format(time.RFC3339),
			Available: available,
		})
	}

	return slots, nil
}

// FormatSlotLabel renders the display form "HH:MM AM/PM - HH:MM AM/PM".
func FormatSlotLabel(start, end time.Time) string {
	return start.Format(labelLayout) + labelSeparator + end.Format(labelLayout)
}

// ParseSlotLabel converts a display label back into absolute instants on
// date. It round-trips with FormatSlotLabel.
func ParseSlotLabel(date time.Time, label string) (time.Time, time.Time, error) {
	parts := strings.Split(label, labelSeparator)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid time slot %q", label)
	}

	start, err := atInstant(date, parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := atInstant(date, parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid time slot %q: start must precede end", label)
	}
	return start, end, nil
}

func atInstant(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(labelLayout, strings.TrimSpace(clock))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slot time %q", clock)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, date.Location()), nil
}
