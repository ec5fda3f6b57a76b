// Package sample is the local booking source.  Rooms come from a catalog
// loader and a fixed set of demonstration bookings is generated relative to
// the current day.  Reservations and cancellations are kept in memory.
package sample

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/room-booking-grid/internal/catalog"
	"github.com/iliyamo/room-booking-grid/internal/model"
	"github.com/iliyamo/room-booking-grid/internal/source"
)

type seed struct {
	roomID   string
	offset   int // days from today
	slot     model.TimeSlot
	userName string
	purpose  string
}

var seeds = []seed{
	{"room-1", 0, model.TimeSlot{Start: "16:00", End: "20:00"}, "Test User", "Extended Study Session"},
	{"room-1", 0, model.TimeSlot{Start: "09:00", End: "10:00"}, "John Smith", "Study Group Session"},
	{"room-2", 0, model.TimeSlot{Start: "14:00", End: "16:00"}, "Sarah Johnson", "Team Project Meeting"},
	{"room-3", 1, model.TimeSlot{Start: "10:00", End: "12:00"}, "Mike Wilson", "Research Work"},
	{"room-4", 0, model.TimeSlot{Start: "16:00", End: "18:00"}, "Emily Davis", "Client Presentation"},
	{"room-1", 2, model.TimeSlot{Start: "13:00", End: "15:00"}, "Alex Chen", "Study Session"},
}

// Bookings returns the demonstration bookings for the day containing now.
// Seeds that reference a room missing from rooms are skipped.
func Bookings(now time.Time, rooms []model.Room) []model.Booking {
	known := make(map[string]bool, len(rooms))
	for _, r := range rooms {
		known[r.ID] = true
	}
	out := make([]model.Booking, 0, len(seeds))
	for i, s := range seeds {
		if !known[s.roomID] {
			continue
		}
		out = append(out, model.Booking{
			ID:       fmt.Sprintf("booking-%d", i+1),
			RoomID:   s.roomID,
			UserID:   fmt.Sprintf("user-%d", i+1),
			UserName: s.userName,
			Date:     now.AddDate(0, 0, s.offset).Format(model.DateLayout),
			TimeSlot: s.slot,
			Status:   model.StatusConfirmed,
			Purpose:  s.purpose,
		})
	}
	return out
}

// Source simulates a provider in memory.
type Source struct {
	loader catalog.Loader
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	rooms    []model.Room
	bookings []model.Booking
	ready    bool
}

var _ source.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithClock overrides the clock used to place the demonstration bookings.
func WithClock(now func() time.Time) Option {
	return func(s *Source) { s.now = now }
}

// New returns a local source over the given catalog.
func New(loader catalog.Loader, logger *slog.Logger, opts ...Option) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Source{
		loader: loader,
		logger: logger.With("component", "sample"),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Mode reports source.ModeLocal.
func (s *Source) Mode() source.Mode { return source.ModeLocal }

// Initialize loads the catalog and seeds the demonstration bookings.
// Calling it again starts over.
func (s *Source) Initialize(ctx context.Context) error {
	rooms, err := s.loader.LoadRooms(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.rooms = rooms
	s.bookings = Bookings(s.now(), rooms)
	s.ready = true
	n := len(s.bookings)
	s.mu.Unlock()
	s.logger.Info("sample data ready", "rooms", len(rooms), "bookings", n)
	return nil
}

func (s *Source) check() error {
	if !s.ready {
		return fmt.Errorf("sample: %w", source.ErrUnauthenticated)
	}
	return nil
}

// FetchRooms returns copies of the catalog.
func (s *Source) FetchRooms(_ context.Context) ([]model.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	out := make([]model.Room, len(s.rooms))
	for i, r := range s.rooms {
		out[i] = r.Clone()
	}
	return out, nil
}

// FetchAvailability always reports no slot data; availability in local
// mode is derived from the grid and the bookings.
func (s *Source) FetchAvailability(_ context.Context, _, _ string) (*model.Availability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return nil, s.check()
}

// FetchBookings returns the room's bookings dated from..to inclusive,
// ordered by date and start time.
func (s *Source) FetchBookings(_ context.Context, roomID, from, to string) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	var out []model.Booking
	for _, b := range s.bookings {
		if b.RoomID == roomID && b.Date >= from && b.Date <= to {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].TimeSlot.Start < out[j].TimeSlot.Start
	})
	return out, nil
}

// Reserve records a confirmed booking under a fresh ID.  Overlap checks
// are the store's job; the simulation accepts every request for a known
// room.
func (s *Source) Reserve(_ context.Context, r source.ReserveRequest) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return model.Booking{}, err
	}
	if !s.hasRoom(r.RoomID) {
		return model.Booking{}, fmt.Errorf("sample: unknown room %q", r.RoomID)
	}
	b := model.Booking{
		ID:       "booking-" + uuid.NewString(),
		RoomID:   r.RoomID,
		UserID:   r.Patron.ID,
		UserName: r.Patron.Name,
		Date:     r.Date,
		TimeSlot: r.Slot,
		Status:   model.StatusConfirmed,
		Purpose:  r.Purpose,
	}
	if b.UserID == "" {
		b.UserID = "user-local"
	}
	s.bookings = append(s.bookings, b)
	return b, nil
}

// Cancel marks the booking cancelled.  It reports false for an unknown ID.
func (s *Source) Cancel(_ context.Context, bookingID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return false, err
	}
	for i := range s.bookings {
		if s.bookings[i].ID == bookingID {
			s.bookings[i].Status = model.StatusCancelled
			return true, nil
		}
	}
	return false, nil
}

func (s *Source) hasRoom(id string) bool {
	for _, r := range s.rooms {
		if r.ID == id {
			return true
		}
	}
	return false
}
