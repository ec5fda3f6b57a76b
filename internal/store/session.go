package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/iliyamo/room-booking-grid/internal/filter"
	"github.com/iliyamo/room-booking-grid/internal/model"
	"github.com/iliyamo/room-booking-grid/internal/source"
)

// Rooms returns the catalog.
func (s *Store) Rooms() []model.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRooms(s.rooms)
}

func cloneRooms(in []model.Room) []model.Room {
	out := make([]model.Room, len(in))
	for i, r := range in {
		out[i] = r.Clone()
	}
	return out
}

// Room looks a room up by ID.
func (s *Store) Room(id string) (model.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rooms {
		if r.ID == id {
			return r.Clone(), true
		}
	}
	return model.Room{}, false
}

// FilteredRooms applies the session filters to the catalog.
func (s *Store) FilteredRooms() []model.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRooms(filter.Rooms(s.rooms, s.filters))
}

// BookingQuery narrows Bookings.  Empty fields match everything.
type BookingQuery struct {
	RoomID           string
	Date             string
	UserID           string
	IncludeCancelled bool
}

// Bookings returns the bookings matching q ordered by date, start time and
// room.
func (s *Store) Bookings(q BookingQuery) []model.Booking {
	s.mu.RLock()
	out := make([]model.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		if q.RoomID != "" && b.RoomID != q.RoomID {
			continue
		}
		if q.Date != "" && b.Date != q.Date {
			continue
		}
		if q.UserID != "" && b.UserID != q.UserID {
			continue
		}
		if !q.IncludeCancelled && !b.Active() {
			continue
		}
		out = append(out, b)
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].TimeSlot.Start != out[j].TimeSlot.Start {
			return out[i].TimeSlot.Start < out[j].TimeSlot.Start
		}
		return out[i].RoomID < out[j].RoomID
	})
	return out
}

// Booking looks a booking up by ID, cancelled ones included.
func (s *Store) Booking(id string) (model.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findLocked(id)
}

// Availability returns the record for roomID on date.
func (s *Store) Availability(roomID, date string) (model.Availability, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolver.Get(roomID, date)
}

// IsSlotAvailable reports the availability of an exact grid slot.  Missing
// data reports true.
func (s *Store) IsSlotAvailable(roomID, date string, slot model.TimeSlot) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolver.IsSlotAvailable(roomID, date, slot)
}

// GetBookingForSlot returns the active booking whose interval is exactly
// slot.  A booking spanning several grid slots is only found by its own
// interval.
func (s *Store) GetBookingForSlot(roomID, date string, slot model.TimeSlot) (model.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.Active() && b.RoomID == roomID && b.Date == date && b.TimeSlot.Equal(slot) {
			return b, true
		}
	}
	return model.Booking{}, false
}

// AvailableTimeSlots returns the canonical slot grid.
func (s *Store) AvailableTimeSlots() []model.TimeSlot {
	return append([]model.TimeSlot(nil), s.grid...)
}

// SelectedDate returns the session's selected date.
func (s *Store) SelectedDate() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedDate
}

// SetSelectedDate selects date and mirrors it into the filters.
func (s *Store) SetSelectedDate(date string) error {
	if !model.ValidDate(date) {
		return fmt.Errorf("%w: date %q", ErrInvalidFilter, date)
	}
	s.mu.Lock()
	s.selectedDate = date
	s.filters.Date = date
	s.mu.Unlock()
	return nil
}

// SetViewMode switches between the day and week layouts.
func (s *Store) SetViewMode(m ViewMode) error {
	if m != ViewDay && m != ViewWeek {
		return fmt.Errorf("%w: view mode %q", ErrInvalidFilter, m)
	}
	s.mu.Lock()
	s.viewMode = m
	s.mu.Unlock()
	return nil
}

// Filters returns the session filters.
func (s *Store) Filters() model.FilterOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := s.filters
	f.Amenities = append([]string{}, f.Amenities...)
	return f
}

// UpdateFilters merges p into the session filters.  A date in p also
// becomes the selected date.
func (s *Store) UpdateFilters(p model.FilterPatch) (model.FilterOptions, error) {
	if err := checkPatch(p); err != nil {
		return model.FilterOptions{}, err
	}
	s.mu.Lock()
	s.filters = p.Apply(s.filters)
	if p.Date != nil {
		s.selectedDate = *p.Date
	}
	s.mu.Unlock()
	return s.Filters(), nil
}

func checkPatch(p model.FilterPatch) error {
	if p.Capacity != nil && *p.Capacity < 0 {
		return fmt.Errorf("%w: capacity %d", ErrInvalidFilter, *p.Capacity)
	}
	if p.Zone != nil && *p.Zone != "" && *p.Zone != model.ZoneAll && !model.IsZone(*p.Zone) {
		return fmt.Errorf("%w: zone %q", ErrInvalidFilter, *p.Zone)
	}
	if p.Date != nil && !model.ValidDate(*p.Date) {
		return fmt.Errorf("%w: date %q", ErrInvalidFilter, *p.Date)
	}
	for _, t := range []*string{p.StartTime, p.EndTime} {
		if t != nil && *t != "" && !model.ValidClock(*t) {
			return fmt.Errorf("%w: time %q", ErrInvalidFilter, *t)
		}
	}
	return nil
}

// WeekDates returns the Monday to Sunday dates of the week containing the
// selected date.
func (s *Store) WeekDates() []string {
	return WeekOf(s.SelectedDate())
}

// WeekOf returns the Monday to Sunday dates of the week containing date.
// It returns nil for a malformed date.
func WeekOf(date string) []string {
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return nil
	}
	monday := d.AddDate(0, 0, -((int(d.Weekday()) + 6) % 7))
	out := make([]string, 7)
	for i := range out {
		out[i] = monday.AddDate(0, 0, i).Format(model.DateLayout)
	}
	return out
}

// Error returns the advisory error left by the last action, if any.
func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Loading reports whether an action is in progress.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Snapshot is a consistent copy of the whole session.
type Snapshot struct {
	Mode          source.Mode          `json:"mode"`
	Initialized   bool                 `json:"initialized"`
	Rooms         []model.Room         `json:"rooms"`
	FilteredRooms []model.Room         `json:"filteredRooms"`
	Bookings      []model.Booking      `json:"bookings"`
	Availability  []model.Availability `json:"availability"`
	Filters       model.FilterOptions  `json:"filters"`
	SelectedDate  string               `json:"selectedDate"`
	ViewMode      ViewMode             `json:"viewMode"`
	WeekDates     []string             `json:"weekDates"`
	TimeSlots     []model.TimeSlot     `json:"timeSlots"`
	Loading       bool                 `json:"loading"`
	Error         string               `json:"error,omitempty"`
}

// Snapshot copies the session under one read lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f := s.filters
	f.Amenities = append([]string{}, f.Amenities...)
	return Snapshot{
		Mode:          s.src.Mode(),
		Initialized:   s.initialized,
		Rooms:         cloneRooms(s.rooms),
		FilteredRooms: cloneRooms(filter.Rooms(s.rooms, s.filters)),
		Bookings:      append([]model.Booking{}, s.bookings...),
		Availability:  s.resolver.All(),
		Filters:       f,
		SelectedDate:  s.selectedDate,
		ViewMode:      s.viewMode,
		WeekDates:     WeekOf(s.selectedDate),
		TimeSlots:     append([]model.TimeSlot(nil), s.grid...),
		Loading:       s.inflight > 0,
		Error:         s.lastErr,
	}
}
