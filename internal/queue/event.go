// Package queue carries booking lifecycle events over RabbitMQ: a publisher
// used by the booking store and a consumer that appends each event to a
// log file.
package queue

import (
	"fmt"
	"time"

	"github.com/iliyamo/room-booking-grid/internal/model"
)

// DefaultQueue is the durable queue booking events are published to.
const DefaultQueue = "booking.events"

// Event types.
const (
	EventConfirmed = "booking.confirmed"
	EventCancelled = "booking.cancelled"
)

// BookingEvent is published after a booking is created or cancelled.  It
// carries enough for downstream consumers to log or notify without calling
// back into the service.
type BookingEvent struct {
	Type       string `json:"type"`
	BookingID  string `json:"booking_id"`
	RoomID     string `json:"room_id"`
	UserID     string `json:"user_id,omitempty"`
	UserName   string `json:"user_name"`
	Date       string `json:"date"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Status     string `json:"status"`
	Purpose    string `json:"purpose,omitempty"`
	Source     string `json:"source"`
	OccurredAt string `json:"occurred_at"`
}

// NewEvent describes b as an event of type typ.
func NewEvent(typ string, b model.Booking, source string, at time.Time) BookingEvent {
	return BookingEvent{
		Type:       typ,
		BookingID:  b.ID,
		RoomID:     b.RoomID,
		UserID:     b.UserID,
		UserName:   b.UserName,
		Date:       b.Date,
		Start:      b.TimeSlot.Start,
		End:        b.TimeSlot.End,
		Status:     string(b.Status),
		Purpose:    b.Purpose,
		Source:     source,
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
}

// Line renders ev as a single human readable log line.
func (ev BookingEvent) Line() string {
	verb := "Booking confirmed"
	if ev.Type == EventCancelled {
		verb = "Booking cancelled"
	}
	return fmt.Sprintf("[%s] %s | booking_id=%s | room_id=%s | user=%q | date=%s | slot=%s-%s | source=%s\n",
		ev.OccurredAt, verb, ev.BookingID, ev.RoomID, ev.UserName, ev.Date, ev.Start, ev.End, ev.Source)
}
