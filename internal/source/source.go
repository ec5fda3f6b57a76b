// Package source defines the capability the booking store reads rooms and
// availability from and submits reservations to.  Implementations are
// selected at startup: the LibCal provider client or the local sample data
// simulation.
package source

import (
	"context"

	"github.com/iliyamo/room-booking-grid/internal/model"
)

// Mode names the data source a store is wired to.
type Mode string

const (
	// ModeLocal simulates reservations in memory and derives availability
	// from the slot grid and local bookings.
	ModeLocal Mode = "local"
	// ModeLibCal delegates to the LibCal provider and reloads availability
	// after every mutation.
	ModeLibCal Mode = "libcal"
)

// ReserveRequest is a reservation of one room for one interval.
type ReserveRequest struct {
	RoomID  string
	Date    string
	Slot    model.TimeSlot
	Patron  model.Patron
	Purpose string
}

// Source is the data capability behind the booking store.
//
// FetchAvailability returns nil with a nil error when the source has no
// slot data of its own for the room and date; callers then fall back to
// the canonical grid.
type Source interface {
	Mode() Mode
	Initialize(ctx context.Context) error
	FetchRooms(ctx context.Context) ([]model.Room, error)
	FetchAvailability(ctx context.Context, roomID, date string) (*model.Availability, error)
	FetchBookings(ctx context.Context, roomID, from, to string) ([]model.Booking, error)
	Reserve(ctx context.Context, req ReserveRequest) (model.Booking, error)
	Cancel(ctx context.Context, bookingID string) (bool, error)
}
