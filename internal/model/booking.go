package model

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusPending   BookingStatus = "pending"
	StatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// Booking is a reservation of a room for a time slot on a date.  The slot
// may span several grid slots.  Cancelled bookings stay in the collection
// with their status changed.
type Booking struct {
	ID       string        `json:"id"`
	RoomID   string        `json:"roomId"`
	UserID   string        `json:"userId"`
	UserName string        `json:"userName"`
	Date     string        `json:"date"`
	TimeSlot TimeSlot      `json:"timeSlot"`
	Status   BookingStatus `json:"status"`
	Purpose  string        `json:"purpose,omitempty"`
}

// Active reports whether the booking still occupies its slot.
func (b Booking) Active() bool { return b.Status != StatusCancelled }

// Patron identifies the person a booking is made for.
type Patron struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
