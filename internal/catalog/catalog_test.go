package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/iliyamo/room-booking-grid/internal/model"
)

func TestDefaultCatalog(t *testing.T) {
	rooms, err := YAMLLoader{}.LoadRooms(context.Background())
	if err != nil {
		t.Fatalf("LoadRooms: %v", err)
	}
	if len(rooms) != 10 {
		t.Fatalf("expected 10 rooms, got %d", len(rooms))
	}
	if rooms[0].ID != "room-1" || rooms[9].ID != "room-10" {
		t.Fatalf("unexpected order: first %s last %s", rooms[0].ID, rooms[9].ID)
	}
	if rooms[1].Name != "Collaboration Hub Beta" || !rooms[1].HasAmenity("Projector") {
		t.Fatalf("unexpected room-2: %+v", rooms[1])
	}
}

func TestYAMLLoaderFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rooms.yaml")
	doc := []byte(`rooms:
  - id: lab-b
    name: Lab
    capacity: 3
    zone: B
    amenities: [" WiFi", WiFi, ""]
`)
	if err := os.WriteFile(path, doc, 0o600); err != nil {
		t.Fatal(err)
	}
	rooms, err := YAMLLoader{Path: path}.LoadRooms(context.Background())
	if err != nil {
		t.Fatalf("LoadRooms: %v", err)
	}
	if len(rooms) != 1 || len(rooms[0].Amenities) != 1 || rooms[0].Amenities[0] != "WiFi" {
		t.Fatalf("unexpected rooms %+v", rooms)
	}

	if _, err := (YAMLLoader{Path: filepath.Join(dir, "missing.yaml")}).LoadRooms(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"empty":     `rooms: []`,
		"syntax":    `rooms: [`,
		"duplicate": "rooms:\n  - {id: a, name: A, capacity: 1, zone: A}\n  - {id: a, name: B, capacity: 1, zone: A}\n",
		"capacity":  "rooms:\n  - {id: a, name: A, capacity: 0, zone: A}\n",
		"zone":      "rooms:\n  - {id: a, name: A, capacity: 2, zone: all}\n",
		"name":      "rooms:\n  - {id: a, capacity: 2, zone: A}\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	_, err := Parse([]byte(cases["duplicate"]))
	if !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("expected ErrInvalidCatalog, got %v", err)
	}
}

func TestSortRooms(t *testing.T) {
	rooms := []model.Room{{ID: "room-10"}, {ID: "room-2"}, {ID: "alpha"}, {ID: "room-1"}}
	sortRooms(rooms)
	got := []string{rooms[0].ID, rooms[1].ID, rooms[2].ID, rooms[3].ID}
	want := []string{"alpha", "room-1", "room-2", "room-10"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestMySQLQuery(t *testing.T) {
	l := NewMySQLLoader(nil, "")
	if got := l.query(); got != "SELECT id, name, capacity, zone, location, amenities, image FROM `rooms` WHERE active = 1" {
		t.Fatalf("query = %q", got)
	}
	if got := splitAmenities(""); len(got) != 0 {
		t.Fatalf("splitAmenities(\"\") = %v", got)
	}
}
