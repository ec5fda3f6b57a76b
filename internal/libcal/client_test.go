package libcal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iliyamo/room-booking-grid/internal/model"
	"github.com/iliyamo/room-booking-grid/internal/source"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// fakeLibCal serves a handful of canned LibCal responses.
func fakeLibCal(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error":"invalid_request"}`)
			return
		}
		if r.PostForm.Get("client_secret") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"error":"invalid_client","error_description":"bad secret"}`)
			return
		}
		io.WriteString(w, `{"access_token":"tok","expires_in":3600}`)
	})
	for pattern, h := range routes {
		h := h
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			h(w, r)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, srv *httptest.Server, ids ...string) *Client {
	t.Helper()
	c := New(Config{
		BaseURL:      srv.URL + "/",
		ClientID:     "id",
		ClientSecret: "secret",
		ItemIDs:      ids,
		LocationName: "Main Library",
		DefaultEmail: "desk@example.edu",
	}, discard())
	if err := c.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return c
}

func TestInitializeRejectedCredentials(t *testing.T) {
	srv := fakeLibCal(t, nil)
	c := New(Config{BaseURL: srv.URL, ClientID: "id", ClientSecret: "wrong"}, discard())
	err := c.Initialize(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
	if apiErr.Message != "invalid_client: bad secret" {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestCallsBeforeInitialize(t *testing.T) {
	c := New(Config{BaseURL: "http://127.0.0.1:1"}, discard())
	if _, err := c.FetchAvailability(context.Background(), "room-1", "2025-01-15"); !errors.Is(err, source.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestFetchRoomsSkipsFailedItems(t *testing.T) {
	srv := fakeLibCal(t, map[string]http.HandlerFunc{
		"GET /space/item/12": func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `[{"id":12,"name":"Study Room A","capacity":4,"category":{"cid":"2"},
				"amenities":[{"id":1,"name":"Whiteboard"},{"id":2,"name":"Whiteboard"},{"id":3,"name":"TV"}]}]`)
		},
		"GET /space/item/13": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"GET /space/item/14": func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `[{"id":"14","name":"Group Room","capacity":0}]`)
		},
	})
	c := newClient(t, srv, "12", "13", "14")

	rooms, err := c.FetchRooms(context.Background())
	if err != nil {
		t.Fatalf("FetchRooms: %v", err)
	}
	if len(rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(rooms))
	}
	r := rooms[0]
	if r.ID != "room-12" || r.Zone != model.ZoneB || r.Location != "Main Library" {
		t.Fatalf("unexpected room %+v", r)
	}
	if len(r.Amenities) != 2 || r.Image == "" {
		t.Fatalf("amenities/image not normalised: %+v", r)
	}
}

func TestFetchRoomsAllFailed(t *testing.T) {
	srv := fakeLibCal(t, map[string]http.HandlerFunc{
		"GET /space/item/13": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
	})
	c := newClient(t, srv, "13")
	if _, err := c.FetchRooms(context.Background()); err == nil {
		t.Fatal("expected error when every item fails")
	}
}

func TestFetchAvailability(t *testing.T) {
	srv := fakeLibCal(t, map[string]http.HandlerFunc{
		"GET /space/search/hourly/12": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("date") != "2025-01-15" {
				io.WriteString(w, `[]`)
				return
			}
			io.WriteString(w, `[{"space_id":12,"date":"2025-01-15","slots":[
				{"start":"2025-01-15T09:00:00","end":"2025-01-15T10:00:00","available":false,"booking_id":77},
				{"start":"10:00","end":"11:00","available":true}]}]`)
		},
	})
	c := newClient(t, srv)

	a, err := c.FetchAvailability(context.Background(), "room-12", "2025-01-15")
	if err != nil {
		t.Fatalf("FetchAvailability: %v", err)
	}
	if a == nil || len(a.TimeSlots) != 2 {
		t.Fatalf("unexpected availability %+v", a)
	}
	first := a.TimeSlots[0]
	if first.Slot != (model.TimeSlot{Start: "09:00", End: "10:00"}) || first.IsAvailable || first.BookingID != "booking-77" {
		t.Fatalf("unexpected first slot %+v", first)
	}

	none, err := c.FetchAvailability(context.Background(), "room-12", "2025-01-16")
	if err != nil || none != nil {
		t.Fatalf("expected nil availability, got %+v, %v", none, err)
	}
}

func TestFetchAvailabilityMalformed(t *testing.T) {
	srv := fakeLibCal(t, map[string]http.HandlerFunc{
		"GET /space/search/hourly/12": func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `[{"space_id":12,"date":"2025-01-15","slots":[{"start":"10:00","end":"11:00"}]}]`)
		},
	})
	c := newClient(t, srv)
	_, err := c.FetchAvailability(context.Background(), "room-12", "2025-01-15")
	if !errors.Is(err, source.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestFetchBookings(t *testing.T) {
	srv := fakeLibCal(t, map[string]http.HandlerFunc{
		"GET /space/bookings": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("eid") != "12" || q.Get("date") != "2025-01-13" || q.Get("days") != "7" {
				t.Errorf("unexpected query %v", q)
			}
			io.WriteString(w, `[{"id":"501","space_id":12,"start":"2025-01-15T14:00:00","end":"2025-01-15T16:00:00",
				"patron":{"id":9,"name":"Sarah Johnson"},"status":"Confirmed","purpose":"Study group"}]`)
		},
	})
	c := newClient(t, srv)

	got, err := c.FetchBookings(context.Background(), "room-12", "2025-01-13", "2025-01-19")
	if err != nil {
		t.Fatalf("FetchBookings: %v", err)
	}
	want := model.Booking{
		ID: "booking-501", RoomID: "room-12", UserID: "9", UserName: "Sarah Johnson",
		Date: "2025-01-15", TimeSlot: model.TimeSlot{Start: "14:00", End: "16:00"},
		Status: model.StatusConfirmed, Purpose: "Study group",
	}
	if len(got) != 1 || got[0] != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestReserve(t *testing.T) {
	var body reserveRequest
	srv := fakeLibCal(t, map[string]http.HandlerFunc{
		"POST /space/reserve": func(w http.ResponseWriter, r *http.Request) {
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode: %v", err)
			}
			io.WriteString(w, `{"booking_id":"cs_901","success":true}`)
		},
	})
	c := newClient(t, srv)
	req := source.ReserveRequest{
		RoomID:  "room-12",
		Date:    "2025-01-15",
		Slot:    model.TimeSlot{Start: "10:00", End: "11:00"},
		Patron:  model.Patron{Name: "Ada"},
		Purpose: "Revision",
	}

	b, err := c.Reserve(context.Background(), req)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if b.ID != "booking-cs_901" || b.RoomID != "room-12" || b.Purpose != "Revision" {
		t.Fatalf("unexpected booking %+v", b)
	}
	if body.Start != "2025-01-15T10:00:00" || body.FName != "Ada" || body.LName != "Ada" || body.Email != "desk@example.edu" {
		t.Fatalf("unexpected request body %+v", body)
	}
	if len(body.Bookings) != 1 || body.Bookings[0].ID != 12 || body.Bookings[0].To != "2025-01-15T11:00:00" {
		t.Fatalf("unexpected bookings %+v", body.Bookings)
	}
}

func TestReserveResults(t *testing.T) {
	cases := []struct {
		name    string
		resp    string
		wantErr error
		wantID  string
	}{
		{"ok", `{"booking_id":901,"success":true}`, nil, "booking-901"},
		{"string id", `{"booking_id":"cs_AbC901","success":true}`, nil, "booking-cs_AbC901"},
		{"rejected", `{"success":false,"errors":["slot unavailable"]}`, ErrRejected, ""},
		{"no id", `{"success":true}`, source.ErrMalformedResponse, ""},
		{"blank id", `{"booking_id":" ","success":true}`, source.ErrMalformedResponse, ""},
		{"no flag", `{"booking_id":901}`, source.ErrMalformedResponse, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := fakeLibCal(t, map[string]http.HandlerFunc{
				"POST /space/reserve": func(w http.ResponseWriter, r *http.Request) {
					io.WriteString(w, tc.resp)
				},
			})
			c := newClient(t, srv)
			b, err := c.Reserve(context.Background(), source.ReserveRequest{
				RoomID: "room-3",
				Date:   "2025-01-15",
				Slot:   model.TimeSlot{Start: "10:00", End: "11:00"},
				Patron: model.Patron{ID: "4", Name: "Mike Wilson", Email: "mike@example.edu"},
			})
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Reserve: %v", err)
			}
			if b.ID != tc.wantID || b.UserID != "4" || b.Status != model.StatusConfirmed {
				t.Fatalf("unexpected booking %+v", b)
			}
		})
	}
}

func TestCancelShapes(t *testing.T) {
	cases := []struct {
		name string
		resp string
		want bool
		err  error
	}{
		{"object", `{"success":true}`, true, nil},
		{"object false", `{"success":false,"message":"too late"}`, false, nil},
		{"list", `[{"booking_id":"55","cancelled":true}]`, true, nil},
		{"list other id", `[{"booking_id":"56","cancelled":true}]`, false, source.ErrMalformedResponse},
		{"no flag", `{"message":"ok"}`, false, source.ErrMalformedResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := fakeLibCal(t, map[string]http.HandlerFunc{
				"POST /space/cancel/55": func(w http.ResponseWriter, r *http.Request) {
					io.WriteString(w, tc.resp)
				},
			})
			c := newClient(t, srv)
			ok, err := c.Cancel(context.Background(), "booking-55")
			if tc.err != nil {
				if !errors.Is(err, tc.err) {
					t.Fatalf("expected %v, got %v", tc.err, err)
				}
				return
			}
			if err != nil || ok != tc.want {
				t.Fatalf("Cancel = %v, %v; want %v", ok, err, tc.want)
			}
		})
	}
}

func TestReserveThenCancelStringID(t *testing.T) {
	var cancelled string
	srv := fakeLibCal(t, map[string]http.HandlerFunc{
		"POST /space/reserve": func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"booking_id":"cs_AbC901","success":true}`)
		},
		"POST /space/cancel/{id}": func(w http.ResponseWriter, r *http.Request) {
			cancelled = r.PathValue("id")
			io.WriteString(w, `[{"booking_id":"cs_AbC901","cancelled":true}]`)
		},
	})
	c := newClient(t, srv)
	b, err := c.Reserve(context.Background(), source.ReserveRequest{
		RoomID: "room-3",
		Date:   "2025-01-15",
		Slot:   model.TimeSlot{Start: "13:00", End: "14:00"},
		Patron: model.Patron{ID: "42", Name: "Emily Davis", Email: "emily@example.edu"},
	})
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	ok, err := c.Cancel(context.Background(), b.ID)
	if err != nil || !ok {
		t.Fatalf("Cancel(%s) = %v, %v", b.ID, ok, err)
	}
	if cancelled != "cs_AbC901" {
		t.Fatalf("cancel path id = %q", cancelled)
	}
}

func TestCancelEscapesID(t *testing.T) {
	var rawPath string
	srv := fakeLibCal(t, map[string]http.HandlerFunc{
		"POST /space/cancel/{id}": func(w http.ResponseWriter, r *http.Request) {
			rawPath = r.URL.EscapedPath()
			io.WriteString(w, `{"success":true}`)
		},
	})
	c := newClient(t, srv)
	if ok, err := c.Cancel(context.Background(), "booking-a b?c"); err != nil || !ok {
		t.Fatalf("Cancel = %v, %v", ok, err)
	}
	if rawPath != "/space/cancel/a%20b%3Fc" {
		t.Fatalf("path = %q", rawPath)
	}
}

func TestCancelRejectsForeignID(t *testing.T) {
	c := New(Config{}, discard())
	if _, err := c.Cancel(context.Background(), "local-abc"); err == nil {
		t.Fatal("expected error for non-provider booking id")
	}
}
