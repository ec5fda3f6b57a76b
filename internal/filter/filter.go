// Package filter derives the filtered room list shown to the user from the
// room catalog and the current filter options.
package filter

import (
	"strings"

	"github.com/iliyamo/room-booking-grid/internal/model"
)

// Rooms returns the rooms that satisfy every clause of opts, in catalog
// order.  The input slice is not modified.
func Rooms(rooms []model.Room, opts model.FilterOptions) []model.Room {
	out := make([]model.Room, 0, len(rooms))
	for _, r := range rooms {
		if Match(r, opts) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether a single room passes all filter clauses.
func Match(r model.Room, opts model.FilterOptions) bool {
	return matchCapacity(r, opts.Capacity) &&
		matchZone(r, opts.Zone) &&
		matchQuery(r, opts.SearchQuery) &&
		matchAmenities(r, opts.Amenities)
}

// A floor of one or less is treated as "any size".
func matchCapacity(r model.Room, floor int) bool {
	return floor <= 1 || r.Capacity >= floor
}

func matchZone(r model.Room, zone string) bool {
	return zone == "" || zone == model.ZoneAll || r.Zone == zone
}

func matchQuery(r model.Room, query string) bool {
	if query == "" {
		return true
	}
	text := r.Name + " " + r.Location + " " + strings.Join(r.Amenities, " ")
	return strings.Contains(strings.ToLower(text), strings.ToLower(query))
}

func matchAmenities(r model.Room, required []string) bool {
	for _, a := range required {
		if !r.HasAmenity(a) {
			return false
		}
	}
	return true
}
