// Package slotgrid produces the canonical sequence of bookable time slots
// for a day.  The grid is a dense set of hour long windows at half hour
// granularity: every slot starting on the hour and every slot starting on
// the half hour, so adjacent slots overlap.
package slotgrid

import (
	"errors"
	"fmt"

	"github.com/iliyamo/room-booking-grid/internal/model"
)

// Default operating hours.
const (
	DefaultOpenHour  = 8
	DefaultCloseHour = 22
)

// ErrInvalidHours is returned by Hours.Validate.
var ErrInvalidHours = errors.New("invalid operating hours")

// Hours are the operating hours the grid spans, as whole hours in [0, 24].
type Hours struct {
	Open  int
	Close int
}

// DefaultHours returns 08:00–22:00.
func DefaultHours() Hours { return Hours{Open: DefaultOpenHour, Close: DefaultCloseHour} }

// Validate checks that the hours describe a non-empty range within a day.
func (h Hours) Validate() error {
	if h.Open < 0 || h.Close > 24 || h.Open >= h.Close {
		return fmt.Errorf("%w: open=%d close=%d", ErrInvalidHours, h.Open, h.Close)
	}
	return nil
}

// Generate returns the grid for h in ascending start order.  For every hour
// boundary from Open to Close-1 it emits [h:00, h+1:00), and for every hour
// from Open to Close-2 it also emits [h:30, h+1:30).  The last slot is
// always [Close-1:00, Close:00).  Invalid hours yield nil.
func Generate(h Hours) []model.TimeSlot {
	if h.Validate() != nil {
		return nil
	}
	slots := make([]model.TimeSlot, 0, 2*(h.Close-h.Open)-1)
	for hour := h.Open; hour < h.Close; hour++ {
		slots = append(slots, model.TimeSlot{
			Start: model.Clock(hour * 60),
			End:   model.Clock((hour + 1) * 60),
		})
		if hour < h.Close-1 {
			slots = append(slots, model.TimeSlot{
				Start: model.Clock(hour*60 + 30),
				End:   model.Clock((hour+1)*60 + 30),
			})
		}
	}
	return slots
}

// Default returns the 27 slot grid for 08:00–22:00.
func Default() []model.TimeSlot { return Generate(DefaultHours()) }
