package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking-grid/internal/middleware"
	"github.com/iliyamo/room-booking-grid/internal/model"
	"github.com/iliyamo/room-booking-grid/internal/store"
)

// BookingHandler serves the booking list and the create/cancel actions.
type BookingHandler struct {
	Store *store.Store
}

// createBookingRequest is the POST /v1/bookings body.  Start and End may
// be given flat instead of as timeSlot.
type createBookingRequest struct {
	RoomID   string         `json:"roomId"`
	Date     string         `json:"date"`
	TimeSlot model.TimeSlot `json:"timeSlot"`
	Start    string         `json:"start"`
	End      string         `json:"end"`
	Patron   model.Patron   `json:"patron"`
	Purpose  string         `json:"purpose"`
}

// ListBookings returns bookings filtered by roomId, date and userId.
// Cancelled bookings are included with includeCancelled=true; mine=true
// restricts the list to the authenticated patron.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	q := store.BookingQuery{
		RoomID: c.QueryParam("roomId"),
		Date:   c.QueryParam("date"),
		UserID: c.QueryParam("userId"),
	}
	q.IncludeCancelled, _ = strconv.ParseBool(c.QueryParam("includeCancelled"))
	if mine, _ := strconv.ParseBool(c.QueryParam("mine")); mine {
		p, ok := middleware.PatronFrom(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
		}
		q.UserID = p.ID
	}
	return c.JSON(http.StatusOK, echo.Map{"items": h.Store.Bookings(q)})
}

// GetBooking returns one booking by ID.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	b, ok := h.Store.Booking(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.JSON(http.StatusOK, b)
}

// CreateBooking books a room.  An authenticated patron replaces any
// patron given in the body.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	slot := req.TimeSlot
	if slot.Start == "" && slot.End == "" {
		slot = model.TimeSlot{Start: req.Start, End: req.End}
	}
	patron := req.Patron
	if p, ok := middleware.PatronFrom(c); ok {
		patron = p
	}
	b, err := h.Store.CreateBooking(c.Request().Context(), store.CreateRequest{
		RoomID:  req.RoomID,
		Date:    req.Date,
		Slot:    slot,
		Patron:  patron,
		Purpose: req.Purpose,
	})
	if err != nil {
		return fail(c, h.Store, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// CancelBooking cancels a booking.  Cancelling an already cancelled
// booking succeeds.
func (h *BookingHandler) CancelBooking(c echo.Context) error {
	id := c.Param("id")
	ok, err := h.Store.CancelBooking(c.Request().Context(), id)
	if err != nil {
		return fail(c, h.Store, err)
	}
	out := echo.Map{"cancelled": ok}
	if b, found := h.Store.Booking(id); found {
		out["booking"] = b
	}
	return c.JSON(http.StatusOK, out)
}
