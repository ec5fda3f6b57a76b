package model

import (
	"fmt"
	"time"
)

// TimeLayout is the wall clock format used by TimeSlot boundaries.
const TimeLayout = "15:04"

// DateLayout is the calendar date format used for booking and availability keys.
const DateLayout = "2006-01-02"

// TimeSlot is a half-open interval [Start, End) on a single day.  Both ends
// are zero padded HH:MM strings, so lexicographic order equals
// chronological order.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// String renders the slot as "HH:MM-HH:MM".
func (s TimeSlot) String() string { return s.Start + "-" + s.End }

// Valid reports whether both ends are well formed and Start < End.
func (s TimeSlot) Valid() bool {
	if !ValidClock(s.Start) || !ValidClock(s.End) {
		return false
	}
	return s.Start < s.End
}

// Overlaps reports whether the two half-open intervals intersect.
func (s TimeSlot) Overlaps(o TimeSlot) bool {
	return s.Start < o.End && o.Start < s.End
}

// Equal reports an exact (start, end) match.
func (s TimeSlot) Equal(o TimeSlot) bool {
	return s.Start == o.Start && s.End == o.End
}

// ValidClock reports whether v is a zero padded HH:MM wall clock value.
// "24:00" is accepted as the end of day.
func ValidClock(v string) bool {
	if v == "24:00" {
		return true
	}
	if len(v) != 5 {
		return false
	}
	_, err := time.Parse(TimeLayout, v)
	return err == nil
}

// ValidDate reports whether v parses as YYYY-MM-DD.
func ValidDate(v string) bool {
	_, err := time.Parse(DateLayout, v)
	return err == nil
}

// Clock formats minutes since midnight as HH:MM.
func Clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
