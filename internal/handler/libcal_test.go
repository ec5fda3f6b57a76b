package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking-grid/internal/libcal"
	"github.com/iliyamo/room-booking-grid/internal/middleware"
	"github.com/iliyamo/room-booking-grid/internal/model"
	"github.com/iliyamo/room-booking-grid/internal/store"
	"github.com/iliyamo/room-booking-grid/internal/utils"
)

const tokenSecret = "test-secret"

// newLibCalServer wires the booking routes over a LibCal client backed by
// a canned provider that knows one space and two patrons' bookings.
func newLibCalServer(t *testing.T) *echo.Echo {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"access_token":"tok","expires_in":3600}`)
	})
	mux.HandleFunc("GET /space/item/3", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":3,"name":"Study Room C","capacity":6,"zone_id":2}]`)
	})
	mux.HandleFunc("GET /space/search/hourly/3", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})
	mux.HandleFunc("GET /space/bookings", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[
			{"id":"cs_AbC100","space_id":3,"start":"2025-01-15T09:00:00","end":"2025-01-15T10:00:00",
			 "patron":{"id":42,"name":"Emily Davis"},"status":"Confirmed"},
			{"id":"cs_AbC101","space_id":3,"start":"2025-01-15T11:00:00","end":"2025-01-15T12:00:00",
			 "patron":{"id":7,"name":"Mike Wilson"},"status":"Confirmed"}]`)
	})
	mux.HandleFunc("POST /space/reserve", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"booking_id":"cs_AbC901","success":true}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	src := libcal.New(libcal.Config{
		BaseURL:      srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
		ItemIDs:      []string{"3"},
		DefaultEmail: "desk@example.edu",
	}, quiet)
	st := store.New(src, quiet, store.WithClock(clock))
	if err := st.InitializeData(context.Background()); err != nil {
		t.Fatalf("InitializeData: %v", err)
	}
	t.Cleanup(st.Close)

	e := echo.New()
	e.Use(middleware.PatronIdentity(tokenSecret))
	bookings := &BookingHandler{Store: st}
	e.GET("/v1/bookings", bookings.ListBookings)
	e.POST("/v1/bookings", bookings.CreateBooking)
	return e
}

func doAs(t *testing.T, e *echo.Echo, p model.Patron, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	tok, err := utils.NewPatronToken(tokenSecret, p, time.Hour)
	if err != nil {
		t.Fatalf("NewPatronToken: %v", err)
	}
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMineWithLibCalBookings(t *testing.T) {
	e := newLibCalServer(t)
	emily := model.Patron{ID: "42", Name: "Emily Davis", Email: "emily@example.edu"}

	body := fmt.Sprintf(`{"roomId":"room-3","date":%q,"start":"13:00","end":"14:00"}`, today)
	rec := doAs(t, e, emily, http.MethodPost, "/v1/bookings", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}

	rec = doAs(t, e, emily, http.MethodGet, "/v1/bookings?mine=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var list struct{ Items []model.Booking }
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := map[string]string{}
	for _, b := range list.Items {
		got[b.ID] = b.UserID
	}
	want := map[string]string{"booking-cs_AbC100": "42", "booking-cs_AbC901": "42"}
	if len(got) != len(want) {
		t.Fatalf("mine = %v, want %v", got, want)
	}
	for id, uid := range want {
		if got[id] != uid {
			t.Fatalf("mine = %v, want %v", got, want)
		}
	}
}
