package model

// Zone codes a room can belong to. "all" is only meaningful as a filter
// selector and is never stored on a Room.
const (
	ZoneA   = "A" // ground floor
	ZoneB   = "B" // second floor
	ZoneC   = "C" // third floor
	ZoneD   = "D" // basement
	ZoneE   = "E" // media center
	ZoneAll = "all"
)

// Zones lists the closed set of location codes in display order.
var Zones = []string{ZoneA, ZoneB, ZoneC, ZoneD, ZoneE}

// IsZone reports whether code is one of the known zone codes.
func IsZone(code string) bool {
	for _, z := range Zones {
		if z == code {
			return true
		}
	}
	return false
}

// Room is a bookable space in the catalog.  Rooms are immutable once loaded
// for a session; a reload replaces the whole catalog.
//
// Fields:
//
//	ID        – stable unique identifier (e.g. "room-211617").
//	Name      – display name.
//	Capacity  – number of seats, always greater than zero.
//	Zone      – one of the Zones codes.
//	Location  – free text location label.
//	Amenities – amenity labels such as "WiFi" or "Projector".
//	Image     – optional image URL.
type Room struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	Capacity  int      `json:"capacity" yaml:"capacity"`
	Zone      string   `json:"zone" yaml:"zone"`
	Location  string   `json:"location" yaml:"location"`
	Amenities []string `json:"amenities" yaml:"amenities"`
	Image     string   `json:"image,omitempty" yaml:"image,omitempty"`
}

// HasAmenity reports whether the room lists the amenity (exact match).
func (r Room) HasAmenity(amenity string) bool {
	for _, a := range r.Amenities {
		if a == amenity {
			return true
		}
	}
	return false
}

// Clone returns a copy of r that shares no slices with it.
func (r Room) Clone() Room {
	out := r
	out.Amenities = append([]string(nil), r.Amenities...)
	return out
}
