package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/room-booking-grid/internal/model"
	"github.com/iliyamo/room-booking-grid/internal/queue"
	"github.com/iliyamo/room-booking-grid/internal/source"
)

// CreateRequest asks for one room for one interval on one date.  The
// interval may span several grid slots.
type CreateRequest struct {
	RoomID  string         `json:"roomId"`
	Date    string         `json:"date"`
	Slot    model.TimeSlot `json:"timeSlot"`
	Patron  model.Patron   `json:"patron"`
	Purpose string         `json:"purpose,omitempty"`
}

func (s *Store) validate(r CreateRequest) error {
	switch {
	case strings.TrimSpace(r.RoomID) == "":
		return fmt.Errorf("%w: room id is required", ErrInvalidBooking)
	case !model.ValidDate(r.Date):
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidBooking, r.Date)
	case !r.Slot.Valid():
		return fmt.Errorf("%w: time slot %s is not a valid interval", ErrInvalidBooking, r.Slot)
	case strings.TrimSpace(r.Patron.Name) == "":
		return fmt.Errorf("%w: patron name is required", ErrInvalidBooking)
	}
	opens, closes := s.grid[0].Start, s.grid[len(s.grid)-1].End
	if r.Slot.Start < opens || r.Slot.End > closes {
		return fmt.Errorf("%w: %s is outside opening hours %s-%s", ErrInvalidBooking, r.Slot, opens, closes)
	}
	return nil
}

// conflictLocked reports the first thing already holding part of the
// requested interval: an unavailable slot, an active booking or another
// create still in flight.
func (s *Store) conflictLocked(r CreateRequest) string {
	if taken := s.resolver.Conflicts(r.RoomID, r.Date, r.Slot); len(taken) > 0 {
		return "slot " + taken[0].Slot.String() + " is unavailable"
	}
	for _, b := range s.bookings {
		if b.Active() && b.RoomID == r.RoomID && b.Date == r.Date && b.TimeSlot.Overlaps(r.Slot) {
			return "booking " + b.ID + " holds " + b.TimeSlot.String()
		}
	}
	for _, c := range s.claims {
		if c.roomID == r.RoomID && c.date == r.Date && c.slot.Overlaps(r.Slot) {
			return "a booking for " + c.slot.String() + " is in progress"
		}
	}
	return ""
}

func (s *Store) hasRoomLocked(id string) bool {
	for _, r := range s.rooms {
		if r.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) dropClaimLocked(id uint64) {
	for i, c := range s.claims {
		if c.id == id {
			s.claims = append(s.claims[:i], s.claims[i+1:]...)
			return
		}
	}
}

// CreateBooking reserves the interval for the patron.
//
// The request is rejected with ErrSlotConflict when any slot intersecting
// the interval is already unavailable.  On success the booking is added
// and every slot it intersects is marked unavailable in the same step; in
// provider mode the date's availability is reloaded afterwards.  Provider
// failures return ErrMutationFailed and leave the state untouched.
func (s *Store) CreateBooking(ctx context.Context, r CreateRequest) (model.Booking, error) {
	r.RoomID = strings.TrimSpace(r.RoomID)
	r.Patron.Name = strings.TrimSpace(r.Patron.Name)
	if err := s.validate(r); err != nil {
		return model.Booking{}, err
	}
	done := s.begin()
	defer done()

	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return model.Booking{}, ErrNotInitialized
	}
	if !s.hasRoomLocked(r.RoomID) {
		s.mu.Unlock()
		return model.Booking{}, fmt.Errorf("%w: %s", ErrUnknownRoom, r.RoomID)
	}
	if why := s.conflictLocked(r); why != "" {
		s.mu.Unlock()
		return model.Booking{}, fmt.Errorf("%w: %s on %s: %s", ErrSlotConflict, r.RoomID, r.Date, why)
	}
	s.nextClaim++
	cl := claim{id: s.nextClaim, roomID: r.RoomID, date: r.Date, slot: r.Slot}
	s.claims = append(s.claims, cl)
	s.mu.Unlock()

	b, err := s.src.Reserve(ctx, source.ReserveRequest{
		RoomID:  r.RoomID,
		Date:    r.Date,
		Slot:    r.Slot,
		Patron:  r.Patron,
		Purpose: r.Purpose,
	})

	s.mu.Lock()
	s.dropClaimLocked(cl.id)
	if err != nil {
		s.lastErr = "Failed to create booking"
		s.mu.Unlock()
		s.logger.Error("create booking failed", "room_id", r.RoomID, "date", r.Date, "slot", r.Slot.String(), "err", err)
		return model.Booking{}, fmt.Errorf("%w: %w", ErrMutationFailed, err)
	}
	s.bookings = append(s.bookings, b)
	if _, ok := s.resolver.Get(b.RoomID, b.Date); ok {
		s.resolver.MarkBooked(b)
	} else {
		s.resolver.Replace(s.resolver.Resolve(b.RoomID, b.Date, nil, s.bookings))
	}
	s.mu.Unlock()

	s.logger.Info("booking created", "booking_id", b.ID, "room_id", b.RoomID, "date", b.Date, "slot", b.TimeSlot.String())
	if s.src.Mode() != source.ModeLocal {
		s.reloadAfterMutation(ctx, b.Date)
	}
	s.emit(ctx, queue.EventConfirmed, b)
	return b, nil
}

// pendingCancel is a cancel in flight with the source.  Concurrent
// cancels of the same booking wait for it and share its result.
type pendingCancel struct {
	finished chan struct{}
	ok       bool
	err      error
}

// CancelBooking cancels a booking.  The booking is kept with status
// cancelled and the slots it held are released.  Cancelling a cancelled
// booking succeeds without calling the source, and so does a cancel that
// arrives while another cancel of the same booking is in flight: it waits
// for that one and returns its result.  An unknown ID returns false with
// ErrBookingNotFound; a source failure or refusal returns false with
// ErrBookingCancelFailed and leaves the state untouched.
func (s *Store) CancelBooking(ctx context.Context, id string) (ok bool, err error) {
	done := s.begin()
	defer done()

	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return false, ErrNotInitialized
	}
	b, found := s.findLocked(id)
	if !found {
		s.mu.Unlock()
		return false, fmt.Errorf("%w: %s", ErrBookingNotFound, id)
	}
	if !b.Active() {
		s.mu.Unlock()
		return true, nil
	}
	if p, busy := s.cancels[id]; busy {
		s.mu.Unlock()
		select {
		case <-p.finished:
			return p.ok, p.err
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	p := &pendingCancel{finished: make(chan struct{})}
	if s.cancels == nil {
		s.cancels = make(map[string]*pendingCancel)
	}
	s.cancels[id] = p
	s.mu.Unlock()
	defer func() {
		p.ok, p.err = ok, err
		s.mu.Lock()
		delete(s.cancels, id)
		s.mu.Unlock()
		close(p.finished)
	}()

	cancelled, err := s.src.Cancel(ctx, id)
	if err != nil || !cancelled {
		s.advise("Failed to cancel booking")
		if err == nil {
			err = fmt.Errorf("source declined to cancel %s", id)
		}
		s.logger.Error("cancel booking failed", "booking_id", id, "err", err)
		return false, fmt.Errorf("%w: %w", ErrBookingCancelFailed, err)
	}

	s.mu.Lock()
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings[i].Status = model.StatusCancelled
			b = s.bookings[i]
			break
		}
	}
	s.resolver.Release(b, s.bookings)
	s.mu.Unlock()

	s.logger.Info("booking cancelled", "booking_id", id, "room_id", b.RoomID, "date", b.Date)
	if s.src.Mode() != source.ModeLocal {
		s.reloadAfterMutation(ctx, b.Date)
	}
	s.emit(ctx, queue.EventCancelled, b)
	return true, nil
}

func (s *Store) findLocked(id string) (model.Booking, bool) {
	for _, b := range s.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return model.Booking{}, false
}

// emit publishes ev in the background, detached from the caller's
// cancellation but keeping its trace.  Close waits for pending events.
func (s *Store) emit(ctx context.Context, typ string, b model.Booking) {
	ev := queue.NewEvent(typ, b, string(s.src.Mode()), s.now())
	s.events.Add(1)
	go func() {
		defer s.events.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if err := s.publisher.Publish(ctx, ev); err != nil {
			s.logger.Warn("publish booking event failed", "type", typ, "booking_id", b.ID, "err", err)
		}
	}()
}

// Close waits for in-flight event deliveries.
func (s *Store) Close() {
	s.events.Wait()
}
