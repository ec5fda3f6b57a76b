package slotgrid

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/iliyamo/room-booking-grid/internal/model"
)

func TestDefault_Count(t *testing.T) {
	slots := Default()
	if len(slots) != 27 {
		t.Fatalf("expected 27 slots, got %d", len(slots))
	}
	last := slots[len(slots)-1]
	if last.Start != "21:00" || last.End != "22:00" {
		t.Fatalf("expected final slot 21:00-22:00, got %s", last)
	}
	if slots[0].Start != "08:00" || slots[0].End != "09:00" {
		t.Fatalf("expected first slot 08:00-09:00, got %s", slots[0])
	}
}

func TestDefault_ContainsHourAndHalfHourSlots(t *testing.T) {
	set := map[model.TimeSlot]bool{}
	for _, s := range Default() {
		set[s] = true
	}
	for h := 8; h <= 20; h++ {
		hour := model.TimeSlot{Start: fmt.Sprintf("%02d:00", h), End: fmt.Sprintf("%02d:00", h+1)}
		half := model.TimeSlot{Start: fmt.Sprintf("%02d:30", h), End: fmt.Sprintf("%02d:30", h+1)}
		if !set[hour] {
			t.Fatalf("missing hour slot %s", hour)
		}
		if !set[half] {
			t.Fatalf("missing half hour slot %s", half)
		}
	}
	if set[model.TimeSlot{Start: "21:30", End: "22:30"}] {
		t.Fatalf("slot past closing time emitted")
	}
}

func TestDefault_AscendingAndStable(t *testing.T) {
	a := Default()
	b := Default()
	if !sort.SliceIsSorted(a, func(i, j int) bool { return a[i].Start < a[j].Start }) {
		t.Fatalf("slots not ascending by start")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("slot %d differs between calls: %s vs %s", i, a[i], b[i])
		}
		if !a[i].Valid() {
			t.Fatalf("slot %d invalid: %s", i, a[i])
		}
	}
}

func TestGenerate_CustomHours(t *testing.T) {
	slots := Generate(Hours{Open: 9, Close: 11})
	want := []model.TimeSlot{
		{Start: "09:00", End: "10:00"},
		{Start: "09:30", End: "10:30"},
		{Start: "10:00", End: "11:00"},
	}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Fatalf("slot %d: expected %s, got %s", i, want[i], slots[i])
		}
	}
}

func TestHours_Validate(t *testing.T) {
	cases := []struct {
		name string
		h    Hours
		ok   bool
	}{
		{"default", DefaultHours(), true},
		{"full day", Hours{Open: 0, Close: 24}, true},
		{"empty", Hours{Open: 10, Close: 10}, false},
		{"reversed", Hours{Open: 12, Close: 9}, false},
		{"past midnight", Hours{Open: 8, Close: 25}, false},
		{"negative", Hours{Open: -1, Close: 5}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.h.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidHours) {
				t.Fatalf("expected ErrInvalidHours, got %v", err)
			}
			if !tc.ok && Generate(tc.h) != nil {
				t.Fatalf("expected nil grid for invalid hours")
			}
		})
	}
}
