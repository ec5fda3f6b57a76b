package libcal

import (
	"encoding/json"
	"testing"

	"github.com/iliyamo/room-booking-grid/internal/model"
)

func TestNumericID(t *testing.T) {
	var v struct {
		A numericID `json:"a"`
		B numericID `json:"b"`
		C numericID `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":12,"b":"0034","c":null}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A != "12" || v.B != "34" || v.C != "" {
		t.Fatalf("got %+v", v)
	}
	if err := json.Unmarshal([]byte(`{"a":"x1"}`), &v); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}

func TestOpaqueID(t *testing.T) {
	var v struct {
		A opaqueID `json:"a"`
		B opaqueID `json:"b"`
		C opaqueID `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":77,"b":"cs_AbC901","c":null}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A != "77" || v.B != "cs_AbC901" || v.C != "" {
		t.Fatalf("got %+v", v)
	}
	if err := json.Unmarshal([]byte(`{"a":true}`), &v); err == nil {
		t.Fatal("expected error for boolean id")
	}
}

func TestZoneOf(t *testing.T) {
	cases := []struct {
		s    space
		want string
	}{
		{space{Category: &categoryRef{CID: "3"}, ZoneID: "5"}, model.ZoneC},
		{space{ZoneID: "5"}, model.ZoneE},
		{space{Category: &categoryRef{CID: "9"}}, model.ZoneA},
		{space{}, model.ZoneA},
	}
	for _, tc := range cases {
		if got := zoneOf(tc.s); got != tc.want {
			t.Errorf("zoneOf(%+v) = %s, want %s", tc.s, got, tc.want)
		}
	}
}

func TestClockOf(t *testing.T) {
	for in, want := range map[string]string{
		"09:00":                     "09:00",
		"09:30:00":                  "09:30",
		"2025-01-15T14:00:00":       "14:00",
		"2025-01-15T14:00:00-05:00": "14:00",
		"2025-01-15 08:30:00":       "08:30",
	} {
		got, err := clockOf(in)
		if err != nil || got != want {
			t.Errorf("clockOf(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := clockOf("noon"); err == nil {
		t.Error("expected error for unrecognised time")
	}
}

func TestIDRoundTrip(t *testing.T) {
	if n, err := SpaceID(RoomID("42")); err != nil || n != 42 {
		t.Fatalf("SpaceID = %d, %v", n, err)
	}
	if _, err := SpaceID("room-"); err == nil {
		t.Fatal("expected error for empty id")
	}
	if id, err := ProviderBookingID(BookingID("cs_AbC901")); err != nil || id != "cs_AbC901" {
		t.Fatalf("ProviderBookingID = %q, %v", id, err)
	}
	for _, bad := range []string{"booking-", "local-7", "7"} {
		if _, err := ProviderBookingID(bad); err == nil {
			t.Errorf("ProviderBookingID(%q) should fail", bad)
		}
	}
}

func TestSplitName(t *testing.T) {
	if f, l := splitName("  Mary Ann  Smith "); f != "Mary" || l != "Ann Smith" {
		t.Fatalf("got %q %q", f, l)
	}
	if f, l := splitName("Cher"); f != "Cher" || l != "Cher" {
		t.Fatalf("got %q %q", f, l)
	}
}
