// Package libcal is the Springshare LibCal 1.1 client used as the booking
// provider.  Every response is decoded into typed records and validated at
// this boundary; anything that does not fit is reported as
// source.ErrMalformedResponse.
package libcal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/iliyamo/room-booking-grid/internal/model"
	"github.com/iliyamo/room-booking-grid/internal/source"
)

// Config holds the provider connection settings.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	// ItemIDs are the LibCal space IDs that make up the room catalog.
	ItemIDs []string
	// LocationName labels rooms whose space reports no location.
	LocationName string
	// DefaultEmail is sent for patrons without an email address.
	DefaultEmail string
	// Timeout bounds each HTTP exchange; zero means no timeout.
	Timeout time.Duration
	// TestReservations asks LibCal to validate reservations without
	// creating them.
	TestReservations bool
}

// APIError is a non-2xx response from the provider.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("libcal: api error %d: %s", e.Status, e.Message)
}

// ErrRejected is returned when the provider answers a reservation with
// success=false.
var ErrRejected = errors.New("libcal: reservation rejected")

// Client implements source.Source against the LibCal API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger

	mu    sync.RWMutex
	token string
}

var _ source.Source = (*Client)(nil)

// New returns a client for cfg.  The client must be initialised before use.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		logger: logger.With("component", "libcal"),
	}
}

// Mode reports source.ModeLibCal.
func (c *Client) Mode() source.Mode { return source.ModeLibCal }

// Initialize exchanges the client credentials for an access token.
func (c *Client) Initialize(ctx context.Context) error {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var tok tokenResponse
	if err := c.exchange(req, &tok); err != nil {
		return err
	}
	if tok.AccessToken == "" {
		return malformed("token response without access_token")
	}
	c.mu.Lock()
	c.token = tok.AccessToken
	c.mu.Unlock()
	c.logger.Info("authenticated", "expires_in", tok.ExpiresIn)
	return nil
}

// FetchRooms loads each configured item.  Items that fail are skipped and
// logged; the call fails only when no item could be loaded.
func (c *Client) FetchRooms(ctx context.Context) ([]model.Room, error) {
	rooms := make([]model.Room, 0, len(c.cfg.ItemIDs))
	var errs []error
	for _, id := range c.cfg.ItemIDs {
		var spaces []space
		if err := c.get(ctx, "/space/item/"+url.PathEscape(id), nil, &spaces); err != nil {
			c.logger.Warn("fetch room failed", "item_id", id, "err", err)
			errs = append(errs, fmt.Errorf("item %s: %w", id, err))
			continue
		}
		if len(spaces) == 0 {
			errs = append(errs, malformed("item %s returned no space", id))
			continue
		}
		room, err := toRoom(spaces[0], c.cfg.LocationName)
		if err != nil {
			c.logger.Warn("invalid room record", "item_id", id, "err", err)
			errs = append(errs, err)
			continue
		}
		rooms = append(rooms, room)
	}
	if len(rooms) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return rooms, nil
}

// FetchAvailability returns the provider's hourly slots for the room and
// date, or nil when the provider reports none.
func (c *Client) FetchAvailability(ctx context.Context, roomID, date string) (*model.Availability, error) {
	spaceID, err := SpaceID(roomID)
	if err != nil {
		return nil, err
	}
	var days []spaceAvailability
	q := url.Values{"date": {date}}
	if err := c.get(ctx, "/space/search/hourly/"+strconv.FormatInt(spaceID, 10), q, &days); err != nil {
		return nil, err
	}
	want := strconv.FormatInt(spaceID, 10)
	for _, d := range days {
		if string(d.SpaceID) != want || d.Date != date {
			continue
		}
		if len(d.Slots) == 0 {
			return nil, nil
		}
		a, err := toAvailability(d, roomID, date)
		if err != nil {
			return nil, err
		}
		return &a, nil
	}
	return nil, nil
}

// FetchBookings lists the bookings of a room between from and to inclusive.
func (c *Client) FetchBookings(ctx context.Context, roomID, from, to string) ([]model.Booking, error) {
	spaceID, err := SpaceID(roomID)
	if err != nil {
		return nil, err
	}
	days, err := dayCount(from, to)
	if err != nil {
		return nil, err
	}
	q := url.Values{
		"eid":  {strconv.FormatInt(spaceID, 10)},
		"date": {from},
		"days": {strconv.Itoa(days)},
	}
	var raw []booking
	if err := c.get(ctx, "/space/bookings", q, &raw); err != nil {
		return nil, err
	}
	out := make([]model.Booking, 0, len(raw))
	for _, b := range raw {
		bk, err := toBooking(b)
		if err != nil {
			return nil, err
		}
		out = append(out, bk)
	}
	return out, nil
}

// dayCount returns the inclusive number of days between two dates.
func dayCount(from, to string) (int, error) {
	f, err := time.Parse(model.DateLayout, from)
	if err != nil {
		return 0, fmt.Errorf("libcal: invalid from date %q", from)
	}
	t, err := time.Parse(model.DateLayout, to)
	if err != nil {
		return 0, fmt.Errorf("libcal: invalid to date %q", to)
	}
	if t.Before(f) {
		return 0, fmt.Errorf("libcal: range %s..%s is reversed", from, to)
	}
	return int(t.Sub(f).Hours()/24) + 1, nil
}

// Reserve books the room for the patron.
func (c *Client) Reserve(ctx context.Context, r source.ReserveRequest) (model.Booking, error) {
	spaceID, err := SpaceID(r.RoomID)
	if err != nil {
		return model.Booking{}, err
	}
	fname, lname := splitName(r.Patron.Name)
	email := r.Patron.Email
	if email == "" {
		email = c.cfg.DefaultEmail
	}
	if email == "" {
		return model.Booking{}, errors.New("libcal: patron email required")
	}
	body := reserveRequest{
		Start: r.Date + "T" + r.Slot.Start + ":00",
		FName: fname,
		LName: lname,
		Email: email,
		Bookings: []reserveItem{{
			ID: spaceID,
			To: r.Date + "T" + r.Slot.End + ":00",
		}},
		Test: c.cfg.TestReservations,
	}
	var resp reserveResponse
	if err := c.send(ctx, http.MethodPost, "/space/reserve", body, &resp); err != nil {
		return model.Booking{}, err
	}
	if resp.Success == nil {
		return model.Booking{}, malformed("reserve response without success flag")
	}
	if !*resp.Success {
		msg := resp.Message
		if len(resp.Errors) > 0 {
			msg = strings.Join(resp.Errors, "; ")
		}
		return model.Booking{}, fmt.Errorf("%w: %s", ErrRejected, msg)
	}
	if resp.BookingID == "" {
		return model.Booking{}, malformed("reserve succeeded without booking_id")
	}
	out := model.Booking{
		ID:       BookingID(string(resp.BookingID)),
		RoomID:   r.RoomID,
		UserName: r.Patron.Name,
		Date:     r.Date,
		TimeSlot: r.Slot,
		Status:   model.StatusConfirmed,
		Purpose:  r.Purpose,
		UserID:   r.Patron.ID,
	}
	c.logger.Info("reserved", "booking_id", out.ID, "room_id", r.RoomID, "date", r.Date, "slot", r.Slot.String())
	return out, nil
}

// Cancel cancels a booking.  LibCal answers either {"success": bool} or a
// list of {"booking_id", "cancelled"} items; both are understood.
func (c *Client) Cancel(ctx context.Context, bookingID string) (bool, error) {
	id, err := ProviderBookingID(bookingID)
	if err != nil {
		return false, err
	}
	var raw json.RawMessage
	if err := c.send(ctx, http.MethodPost, "/space/cancel/"+url.PathEscape(id), nil, &raw); err != nil {
		return false, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []cancelItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return false, malformed("cancel response: %v", err)
		}
		for _, it := range items {
			if string(it.BookingID) == id {
				return it.Cancelled, nil
			}
		}
		return false, malformed("cancel response does not mention booking %s", id)
	}
	var resp cancelResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return false, malformed("cancel response: %v", err)
	}
	if resp.Success == nil {
		return false, malformed("cancel response without success flag")
	}
	return *resp.Success, nil
}

func (c *Client) bearer() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == "" {
		return "", source.ErrUnauthenticated
	}
	return c.token, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.cfg.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.authorised(req, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.authorised(req, out)
}

func (c *Client) authorised(req *http.Request, out any) error {
	tok, err := c.bearer()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Accept", "application/json")
	return c.exchange(req, out)
}

// exchange performs req and decodes a 2xx JSON body into out.
func (c *Client) exchange(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(body))
		var eb apiErrorBody
		if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
			msg = eb.Error
			if eb.Description != "" {
				msg += ": " + eb.Description
			}
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return malformed("%s %s: %v", req.Method, req.URL.Path, err)
	}
	return nil
}
