package libcal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/room-booking-grid/internal/model"
	"github.com/iliyamo/room-booking-grid/internal/source"
)

const (
	roomPrefix    = "room-"
	bookingPrefix = "booking-"
)

// zoneByID maps LibCal category and zone identifiers onto zone codes.
var zoneByID = map[string]string{
	"1": model.ZoneA,
	"2": model.ZoneB,
	"3": model.ZoneC,
	"4": model.ZoneD,
	"5": model.ZoneE,
}

var defaultImages = []string{
	"https://images.unsplash.com/photo-1497366216548-37526070297c?w=300",
	"https://images.unsplash.com/photo-1497366811353-6870744d04b2?w=300",
	"https://images.unsplash.com/photo-1497366754035-f200968a6e72?w=300",
	"https://images.unsplash.com/photo-1497366412874-3415097a27e7?w=300",
}

// RoomID returns the catalog ID of a LibCal space.
func RoomID(spaceID string) string { return roomPrefix + spaceID }

// BookingID returns the store ID of a LibCal booking.
func BookingID(id string) string { return bookingPrefix + id }

// SpaceID extracts the numeric LibCal space ID from a catalog room ID.
func SpaceID(roomID string) (int64, error) {
	return parseID(roomID, roomPrefix)
}

// ProviderBookingID extracts the LibCal booking ID from a store booking ID.
// The result is opaque and must be escaped before it goes into a path.
func ProviderBookingID(bookingID string) (string, error) {
	raw, ok := strings.CutPrefix(bookingID, bookingPrefix)
	if !ok || strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("libcal: %q is not a %sID identifier", bookingID, bookingPrefix)
	}
	return raw, nil
}

func parseID(v, prefix string) (int64, error) {
	raw := strings.TrimPrefix(v, prefix)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("libcal: %q is not a %sN identifier", v, prefix)
	}
	return n, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", source.ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// toRoom validates a space and converts it.  defaultLocation is used when
// the space reports no location.
func toRoom(s space, defaultLocation string) (model.Room, error) {
	if s.ID == "" {
		return model.Room{}, malformed("space without id")
	}
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return model.Room{}, malformed("space %s has no name", s.ID)
	}
	if s.Capacity <= 0 {
		return model.Room{}, malformed("space %s has capacity %d", s.ID, s.Capacity)
	}
	room := model.Room{
		ID:        RoomID(string(s.ID)),
		Name:      name,
		Capacity:  s.Capacity,
		Zone:      zoneOf(s),
		Location:  defaultLocation,
		Amenities: make([]string, 0, len(s.Amenities)),
		Image:     s.Image,
	}
	if s.Location != nil && strings.TrimSpace(s.Location.Name) != "" {
		room.Location = strings.TrimSpace(s.Location.Name)
	}
	seen := make(map[string]struct{}, len(s.Amenities))
	for _, a := range s.Amenities {
		label := strings.TrimSpace(a.Name)
		if label == "" {
			continue
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		room.Amenities = append(room.Amenities, label)
	}
	if room.Image == "" {
		id, _ := strconv.Atoi(string(s.ID))
		room.Image = defaultImages[id%len(defaultImages)]
	}
	return room, nil
}

// zoneOf prefers the category, then the zone id, and falls back to zone A.
func zoneOf(s space) string {
	if s.Category != nil && s.Category.CID != "" {
		if z, ok := zoneByID[string(s.Category.CID)]; ok {
			return z
		}
		return model.ZoneA
	}
	if z, ok := zoneByID[string(s.ZoneID)]; ok {
		return z
	}
	return model.ZoneA
}

// toAvailability converts provider slots 1:1.
func toAvailability(a spaceAvailability, roomID, date string) (model.Availability, error) {
	out := model.Availability{
		RoomID:    roomID,
		Date:      date,
		TimeSlots: make([]model.SlotState, 0, len(a.Slots)),
	}
	for i, s := range a.Slots {
		start, err := clockOf(s.Start)
		if err != nil {
			return model.Availability{}, malformed("slot %d start: %v", i, err)
		}
		end, err := clockOf(s.End)
		if err != nil {
			return model.Availability{}, malformed("slot %d end: %v", i, err)
		}
		slot := model.TimeSlot{Start: start, End: end}
		if !slot.Valid() {
			return model.Availability{}, malformed("slot %d has empty interval %s", i, slot)
		}
		if s.Available == nil {
			return model.Availability{}, malformed("slot %d %s has no available flag", i, slot)
		}
		st := model.SlotState{Slot: slot, IsAvailable: *s.Available}
		if s.BookingID != "" {
			st.BookingID = BookingID(string(s.BookingID))
		}
		out.TimeSlots = append(out.TimeSlots, st)
	}
	return out, nil
}

func toBooking(b booking) (model.Booking, error) {
	if b.ID == "" || b.SpaceID == "" {
		return model.Booking{}, malformed("booking without id or space_id")
	}
	start, err := clockOf(b.Start)
	if err != nil {
		return model.Booking{}, malformed("booking %s start: %v", b.ID, err)
	}
	end, err := clockOf(b.End)
	if err != nil {
		return model.Booking{}, malformed("booking %s end: %v", b.ID, err)
	}
	date := b.Date
	if date == "" {
		date, err = dateOf(b.Start)
		if err != nil {
			return model.Booking{}, malformed("booking %s has no date", b.ID)
		}
	}
	if !model.ValidDate(date) {
		return model.Booking{}, malformed("booking %s date %q", b.ID, date)
	}
	status := model.BookingStatus(strings.ToLower(b.Status))
	if !status.Valid() {
		return model.Booking{}, malformed("booking %s status %q", b.ID, b.Status)
	}
	out := model.Booking{
		ID:       BookingID(string(b.ID)),
		RoomID:   RoomID(string(b.SpaceID)),
		UserName: b.Patron.Name,
		Date:     date,
		TimeSlot: model.TimeSlot{Start: start, End: end},
		Status:   status,
		Purpose:  b.Purpose,
	}
	if b.Patron.ID != "" {
		out.UserID = string(b.Patron.ID)
	}
	if !out.TimeSlot.Valid() {
		return model.Booking{}, malformed("booking %s interval %s", b.ID, out.TimeSlot)
	}
	return out, nil
}

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// clockOf extracts HH:MM from a provider time value, which is either a
// wall clock ("09:00", "09:00:00") or a datetime.  The wall clock of a
// datetime is taken as reported, without converting zones.
func clockOf(v string) (string, error) {
	v = strings.TrimSpace(v)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(model.TimeLayout), nil
		}
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(model.TimeLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognised time %q", v)
}

func dateOf(v string) (string, error) {
	v = strings.TrimSpace(v)
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(model.DateLayout), nil
		}
	}
	return "", fmt.Errorf("unrecognised datetime %q", v)
}

// splitName splits a display name into the first and last names the
// reserve endpoint requires.  A single word is used for both.
func splitName(name string) (string, string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], fields[0]
	}
	return fields[0], strings.Join(fields[1:], " ")
}
