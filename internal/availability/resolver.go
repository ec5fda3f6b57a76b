// Package availability keeps the per room, per date availability records
// and derives them from provider data or from the canonical slot grid plus
// locally known bookings.
//
// A Resolver is not safe for concurrent use; the store that owns it
// serialises access.
package availability

import (
	"sort"

	"github.com/iliyamo/room-booking-grid/internal/model"
)

type key struct {
	roomID string
	date   string
}

// Resolver owns the availability collection.  At most one record exists
// per (room, date) pair.
type Resolver struct {
	grid    []model.TimeSlot
	records map[key]model.Availability
}

// NewResolver returns an empty resolver that falls back to grid when no
// provider data exists for a room and date.
func NewResolver(grid []model.TimeSlot) *Resolver {
	return &Resolver{
		grid:    append([]model.TimeSlot(nil), grid...),
		records: make(map[key]model.Availability),
	}
}

// Grid returns a copy of the canonical slot grid.
func (r *Resolver) Grid() []model.TimeSlot {
	return append([]model.TimeSlot(nil), r.grid...)
}

// Resolve builds the availability of roomID on date without storing it.
//
// When provider is non-nil its slots are taken 1:1 and its boundaries are
// authoritative.  Otherwise every grid slot starts available and each
// active booking in local for the same room and date marks every slot it
// intersects as unavailable.
func (r *Resolver) Resolve(roomID, date string, provider *model.Availability, local []model.Booking) model.Availability {
	if provider != nil {
		out := provider.Clone()
		out.RoomID = roomID
		out.Date = date
		return out
	}
	out := model.Availability{
		RoomID:    roomID,
		Date:      date,
		TimeSlots: make([]model.SlotState, 0, len(r.grid)),
	}
	for _, slot := range r.grid {
		out.TimeSlots = append(out.TimeSlots, model.SlotState{Slot: slot, IsAvailable: true})
	}
	for _, b := range local {
		if b.RoomID != roomID || b.Date != date || !b.Active() {
			continue
		}
		occupy(&out, b)
	}
	return out
}

// occupy marks every free slot of a that intersects b's interval.  A slot
// already held by another booking keeps its booking ID.
func occupy(a *model.Availability, b model.Booking) int {
	n := 0
	for i := range a.TimeSlots {
		ts := &a.TimeSlots[i]
		if !ts.Slot.Overlaps(b.TimeSlot) {
			continue
		}
		if ts.IsAvailable {
			ts.IsAvailable = false
			ts.BookingID = b.ID
			n++
		} else if ts.BookingID == "" {
			ts.BookingID = b.ID
		}
	}
	return n
}

// Replace stores a in place of any previous record for the same room and
// date.
func (r *Resolver) Replace(a model.Availability) {
	r.records[key{a.RoomID, a.Date}] = a.Clone()
}

// ReplaceDate discards every record for date and stores records in its
// place.  Records whose date differs from date are ignored.
func (r *Resolver) ReplaceDate(date string, records []model.Availability) {
	for k := range r.records {
		if k.date == date {
			delete(r.records, k)
		}
	}
	for _, a := range records {
		if a.Date != date {
			continue
		}
		r.Replace(a)
	}
}

// Reset drops every record.
func (r *Resolver) Reset() {
	r.records = make(map[key]model.Availability)
}

// Get returns a copy of the record for roomID on date.
func (r *Resolver) Get(roomID, date string) (model.Availability, bool) {
	a, ok := r.records[key{roomID, date}]
	if !ok {
		return model.Availability{}, false
	}
	return a.Clone(), true
}

// All returns copies of every record ordered by date, then room.
func (r *Resolver) All() []model.Availability {
	out := make([]model.Availability, 0, len(r.records))
	for _, a := range r.records {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].RoomID < out[j].RoomID
	})
	return out
}

// IsSlotAvailable looks slot up by exact (start, end) match.  A missing
// record or a missing entry reports true: lookups fail open so that missing
// data never blocks a booking attempt.
func (r *Resolver) IsSlotAvailable(roomID, date string, slot model.TimeSlot) bool {
	a, ok := r.records[key{roomID, date}]
	if !ok {
		return true
	}
	i := a.Find(slot)
	if i < 0 {
		return true
	}
	return a.TimeSlots[i].IsAvailable
}

// Conflicts returns the unavailable entries of the record for roomID on
// date whose interval intersects slot.  It returns nil when no record
// exists.
func (r *Resolver) Conflicts(roomID, date string, slot model.TimeSlot) []model.SlotState {
	a, ok := r.records[key{roomID, date}]
	if !ok {
		return nil
	}
	var out []model.SlotState
	for _, ts := range a.TimeSlots {
		if !ts.IsAvailable && ts.Slot.Overlaps(slot) {
			out = append(out, ts)
		}
	}
	return out
}

// MarkBooked flips every free slot intersecting b to unavailable with b's
// ID.  It returns the number of slots changed, zero when no record exists
// for b's room and date.
func (r *Resolver) MarkBooked(b model.Booking) int {
	k := key{b.RoomID, b.Date}
	a, ok := r.records[k]
	if !ok {
		return 0
	}
	a = a.Clone()
	n := occupy(&a, b)
	r.records[k] = a
	return n
}

// Release frees the slots held by b: every entry carrying b's ID, and an
// exact match of b's slot reported without a booking ID.  Active bookings
// in others that still intersect a released slot occupy it again, so a
// slot never shows available while another booking covers it.
func (r *Resolver) Release(b model.Booking, others []model.Booking) int {
	k := key{b.RoomID, b.Date}
	a, ok := r.records[k]
	if !ok {
		return 0
	}
	a = a.Clone()
	n := 0
	for i := range a.TimeSlots {
		ts := &a.TimeSlots[i]
		held := ts.BookingID == b.ID ||
			(ts.BookingID == "" && !ts.IsAvailable && ts.Slot.Equal(b.TimeSlot))
		if !held {
			continue
		}
		ts.IsAvailable = true
		ts.BookingID = ""
		n++
	}
	for _, o := range others {
		if o.ID == b.ID || !o.Active() || o.RoomID != b.RoomID || o.Date != b.Date {
			continue
		}
		occupy(&a, o)
	}
	r.records[k] = a
	return n
}
