// Package catalog loads the room catalog used by the local booking source.
// Two loaders exist: a YAML document (an embedded default ships with the
// binary) and a read-only MySQL table maintained outside this service.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/iliyamo/room-booking-grid/internal/model"
)

// ErrInvalidCatalog reports a catalog that violates the room invariants.
var ErrInvalidCatalog = errors.New("catalog: invalid room catalog")

// Loader produces the full room catalog.
type Loader interface {
	LoadRooms(ctx context.Context) ([]model.Room, error)
}

// Validate checks IDs are unique and non-empty, capacities positive and
// zones known.  Amenity labels are trimmed and de-duplicated in place.
func Validate(rooms []model.Room) error {
	seen := make(map[string]struct{}, len(rooms))
	for i := range rooms {
		r := &rooms[i]
		r.ID = strings.TrimSpace(r.ID)
		if r.ID == "" {
			return fmt.Errorf("%w: room %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("%w: duplicate room id %q", ErrInvalidCatalog, r.ID)
		}
		seen[r.ID] = struct{}{}
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("%w: room %q has no name", ErrInvalidCatalog, r.ID)
		}
		if r.Capacity <= 0 {
			return fmt.Errorf("%w: room %q capacity %d", ErrInvalidCatalog, r.ID, r.Capacity)
		}
		if !model.IsZone(r.Zone) {
			return fmt.Errorf("%w: room %q zone %q", ErrInvalidCatalog, r.ID, r.Zone)
		}
		r.Amenities = cleanAmenities(r.Amenities)
	}
	return nil
}

func cleanAmenities(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

// sortRooms orders rooms by the numeric suffix of their ID when both have
// one ("room-2" before "room-10"), otherwise lexically.
func sortRooms(rooms []model.Room) {
	sort.SliceStable(rooms, func(i, j int) bool {
		a, aok := numericSuffix(rooms[i].ID)
		b, bok := numericSuffix(rooms[j].ID)
		if aok && bok && a != b {
			return a < b
		}
		return rooms[i].ID < rooms[j].ID
	})
}

func numericSuffix(id string) (int, bool) {
	i := strings.LastIndexByte(id, '-')
	n, err := strconv.Atoi(id[i+1:])
	return n, err == nil
}
