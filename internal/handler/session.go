package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking-grid/internal/model"
	"github.com/iliyamo/room-booking-grid/internal/store"
)

// SessionHandler exposes the session state a presentation layer renders:
// selected date, filters, view mode and the week strip.
type SessionHandler struct {
	Store *store.Store
}

// State returns a snapshot of the whole session.
func (h *SessionHandler) State(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Snapshot())
}

// UpdateFilters merges a partial filter update and returns the filters
// with the rooms that now match.
func (h *SessionHandler) UpdateFilters(c echo.Context) error {
	var patch model.FilterPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	f, err := h.Store.UpdateFilters(patch)
	if err != nil {
		return fail(c, h.Store, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"filters": f, "items": h.Store.FilteredRooms()})
}

// SetDate selects a date and loads its availability.  A failed load is
// reported as an advisory error; the date change stands.
func (h *SessionHandler) SetDate(c echo.Context) error {
	var body struct {
		Date string `json:"date"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.Store.SetSelectedDate(body.Date); err != nil {
		return fail(c, h.Store, err)
	}
	out := echo.Map{"selectedDate": body.Date, "weekDates": h.Store.WeekDates()}
	if err := h.Store.LoadAvailability(c.Request().Context(), body.Date); err != nil {
		msg := h.Store.Error()
		if msg == "" {
			msg = err.Error()
		}
		out["error"] = msg
	}
	return c.JSON(http.StatusOK, out)
}

// SetView switches between the day and week layouts.
func (h *SessionHandler) SetView(c echo.Context) error {
	var body struct {
		Mode store.ViewMode `json:"mode"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := h.Store.SetViewMode(body.Mode); err != nil {
		return fail(c, h.Store, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"viewMode": body.Mode})
}

// Week returns the Monday to Sunday dates around the selected date.
func (h *SessionHandler) Week(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"selectedDate": h.Store.SelectedDate(),
		"weekDates":    h.Store.WeekDates(),
	})
}
