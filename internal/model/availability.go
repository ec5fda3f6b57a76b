package model

// SlotState is one entry of an availability record.  BookingID is empty
// when the slot is free or when the source did not report a booking.
type SlotState struct {
	Slot        TimeSlot `json:"slot"`
	IsAvailable bool     `json:"isAvailable"`
	BookingID   string   `json:"bookingId,omitempty"`
}

// Availability holds the slot states of one room on one date.  Entries
// follow the canonical grid order (or the provider's order when the record
// came from the provider).
type Availability struct {
	RoomID    string      `json:"roomId"`
	Date      string      `json:"date"`
	TimeSlots []SlotState `json:"timeSlots"`
}

// Clone returns a deep copy of a.
func (a Availability) Clone() Availability {
	out := a
	out.TimeSlots = append([]SlotState(nil), a.TimeSlots...)
	return out
}

// Find returns the index of the entry that exactly matches slot, or -1.
func (a Availability) Find(slot TimeSlot) int {
	for i, ts := range a.TimeSlots {
		if ts.Slot.Equal(slot) {
			return i
		}
	}
	return -1
}
