package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/room-booking-grid/internal/model"
	"github.com/iliyamo/room-booking-grid/internal/source"
)

// LoadRooms replaces the catalog with the source's rooms.  On failure the
// catalog falls back to empty and the advisory error is set.
func (s *Store) LoadRooms(ctx context.Context) error {
	if err := s.ensureInitialized(ctx); err != nil {
		return err
	}
	done := s.begin()
	defer done()

	rooms, err := s.src.FetchRooms(ctx)
	if err != nil {
		s.logger.Error("load rooms failed", "err", err)
		s.mu.Lock()
		s.rooms = nil
		s.lastErr = "Failed to load rooms"
		s.mu.Unlock()
		return fmt.Errorf("%w: rooms: %w", ErrFetchFailed, err)
	}
	cp := make([]model.Room, len(rooms))
	for i, r := range rooms {
		cp[i] = r.Clone()
	}
	s.mu.Lock()
	s.rooms = cp
	s.mu.Unlock()
	s.logger.Info("rooms loaded", "count", len(cp))
	return nil
}

// fetched is the outcome of fetching one date's availability.
type fetched struct {
	provider map[string]*model.Availability
	errs     []error
	rooms    int
}

func (f fetched) allFailed() bool { return f.rooms > 0 && len(f.errs) == f.rooms }

// fetchDate asks the source for every catalog room's availability on date.
// Rooms that fail are logged and left out.
func (s *Store) fetchDate(ctx context.Context, date string) fetched {
	s.mu.RLock()
	ids := make([]string, len(s.rooms))
	for i, r := range s.rooms {
		ids[i] = r.ID
	}
	s.mu.RUnlock()

	out := fetched{provider: make(map[string]*model.Availability, len(ids)), rooms: len(ids)}
	for _, id := range ids {
		a, err := s.src.FetchAvailability(ctx, id, date)
		if err != nil {
			s.logger.Warn("load availability failed", "room_id", id, "date", date, "err", err)
			out.errs = append(out.errs, fmt.Errorf("%s: %w", id, err))
			continue
		}
		out.provider[id] = a
	}
	return out
}

// resolveLocked builds records for every fetched room.  Rooms without
// provider data get the grid with the known active bookings overlaid.
func (s *Store) resolveLocked(date string, f fetched) []model.Availability {
	records := make([]model.Availability, 0, len(f.provider))
	for id, p := range f.provider {
		records = append(records, s.resolver.Resolve(id, date, p, s.bookings))
	}
	return records
}

// LoadAvailability replaces every availability record for date.  A room
// whose fetch fails is skipped.  When every room fails, the date is left
// without records, the advisory error is set and ErrFetchFailed returned.
func (s *Store) LoadAvailability(ctx context.Context, date string) error {
	if !model.ValidDate(date) {
		return fmt.Errorf("%w: date %q", ErrInvalidFilter, date)
	}
	if err := s.ensureInitialized(ctx); err != nil {
		return err
	}
	done := s.begin()
	defer done()

	f := s.fetchDate(ctx, date)

	s.mu.Lock()
	defer s.mu.Unlock()
	if f.allFailed() {
		s.resolver.ReplaceDate(date, nil)
		s.lastErr = "Failed to load availability"
		return fmt.Errorf("%w: availability %s: %w", ErrFetchFailed, date, errors.Join(f.errs...))
	}
	s.resolver.ReplaceDate(date, s.resolveLocked(date, f))
	s.logger.Info("availability loaded", "date", date, "rooms", len(f.provider), "failed", len(f.errs))
	return nil
}

// reloadAfterMutation refreshes the records for date after a provider
// mutation.  Records are replaced room by room so a failed fetch keeps the
// optimistic record in place.
func (s *Store) reloadAfterMutation(ctx context.Context, date string) {
	f := s.fetchDate(ctx, date)
	if f.allFailed() {
		s.logger.Warn("availability reload after mutation failed", "date", date)
		return
	}
	s.mu.Lock()
	for _, a := range s.resolveLocked(date, f) {
		s.resolver.Replace(a)
	}
	s.mu.Unlock()
}

// LoadBookings reloads the bookings dated from..to inclusive for every
// catalog room.  Bookings outside the range, and those of rooms whose
// fetch failed, are kept.  When every room fails the range is emptied, the
// advisory error is set and ErrFetchFailed returned.
func (s *Store) LoadBookings(ctx context.Context, from, to string) error {
	if !model.ValidDate(from) || !model.ValidDate(to) || to < from {
		return fmt.Errorf("%w: date range %q..%q", ErrInvalidFilter, from, to)
	}
	if err := s.ensureInitialized(ctx); err != nil {
		return err
	}
	done := s.begin()
	defer done()

	s.mu.RLock()
	ids := make([]string, len(s.rooms))
	for i, r := range s.rooms {
		ids[i] = r.ID
	}
	s.mu.RUnlock()

	loaded := make(map[string]bool, len(ids))
	var (
		got  []model.Booking
		errs []error
	)
	for _, id := range ids {
		bs, err := s.src.FetchBookings(ctx, id, from, to)
		if err != nil {
			s.logger.Warn("load bookings failed", "room_id", id, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", id, err))
			continue
		}
		loaded[id] = true
		got = append(got, bs...)
	}

	inRange := func(b model.Booking) bool { return b.Date >= from && b.Date <= to }

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(ids) > 0 && len(errs) == len(ids) {
		s.bookings = keep(s.bookings, func(b model.Booking) bool { return !inRange(b) })
		s.lastErr = "Failed to load bookings"
		s.overlayLocked(from, to)
		return fmt.Errorf("%w: bookings %s..%s: %w", ErrFetchFailed, from, to, errors.Join(errs...))
	}
	next := keep(s.bookings, func(b model.Booking) bool { return !inRange(b) || !loaded[b.RoomID] })
	seen := make(map[string]bool, len(next))
	for _, b := range next {
		seen[b.ID] = true
	}
	for _, b := range got {
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		next = append(next, b)
	}
	s.bookings = next
	s.overlayLocked(from, to)
	s.logger.Info("bookings loaded", "from", from, "to", to, "count", len(got), "failed", len(errs))
	return nil
}

// overlayLocked re-derives the grid-based records dated from..to from the
// current bookings.  Provider-backed records are left alone.
func (s *Store) overlayLocked(from, to string) {
	if s.src.Mode() != source.ModeLocal {
		return
	}
	for _, a := range s.resolver.All() {
		if a.Date < from || a.Date > to {
			continue
		}
		s.resolver.Replace(s.resolver.Resolve(a.RoomID, a.Date, nil, s.bookings))
	}
}

func keep(in []model.Booking, pred func(model.Booking) bool) []model.Booking {
	out := make([]model.Booking, 0, len(in))
	for _, b := range in {
		if pred(b) {
			out = append(out, b)
		}
	}
	return out
}
