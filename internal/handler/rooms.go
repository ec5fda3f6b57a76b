// Package handler exposes the booking session over HTTP.  Handlers read
// and mutate the session store and translate its errors to status codes.
package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/room-booking-grid/internal/filter"
	"github.com/iliyamo/room-booking-grid/internal/middleware"
	"github.com/iliyamo/room-booking-grid/internal/model"
	"github.com/iliyamo/room-booking-grid/internal/store"
)

// RoomHandler serves the catalog, slot grid and availability.  Redis and
// CachePrefix, when set, let a catalog reload purge cached responses.
type RoomHandler struct {
	Store       *store.Store
	Redis       *redis.Client
	CachePrefix string
}

// ListRooms returns the catalog.  The session's filtered projection is
// part of GET /v1/state and the filters update response.  An empty
// catalog is marked no-store so the response cache does not keep it past
// a later load.
func (h *RoomHandler) ListRooms(c echo.Context) error {
	rooms := h.Store.Rooms()
	if len(rooms) == 0 {
		c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": rooms})
}

// SearchRooms filters the catalog by query parameters without touching
// the session filters.  Parameters: capacity, zone, q, amenities
// (comma separated).
func (h *RoomHandler) SearchRooms(c echo.Context) error {
	opts := model.DefaultFilters(h.Store.SelectedDate())
	if v := c.QueryParam("capacity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid capacity"})
		}
		opts.Capacity = n
	}
	if v := c.QueryParam("zone"); v != "" {
		if v != model.ZoneAll && !model.IsZone(v) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid zone"})
		}
		opts.Zone = v
	}
	opts.SearchQuery = c.QueryParam("q")
	for _, a := range strings.Split(c.QueryParam("amenities"), ",") {
		if a = strings.TrimSpace(a); a != "" {
			opts.Amenities = append(opts.Amenities, a)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": filter.Rooms(h.Store.Rooms(), opts)})
}

// Slots returns the canonical slot grid.
func (h *RoomHandler) Slots(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Store.AvailableTimeSlots()})
}

func (h *RoomHandler) dateParam(c echo.Context) (string, bool) {
	date := c.QueryParam("date")
	if date == "" {
		date = h.Store.SelectedDate()
	}
	return date, model.ValidDate(date)
}

// RoomAvailability returns the availability record of a room for
// ?date= (default: the selected date).
func (h *RoomHandler) RoomAvailability(c echo.Context) error {
	id := c.Param("id")
	if _, ok := h.Store.Room(id); !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}
	date, ok := h.dateParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	a, ok := h.Store.Availability(id, date)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "availability not loaded for " + date})
	}
	return c.JSON(http.StatusOK, a)
}

// SlotStatus answers whether one exact slot is free and which booking
// holds it.
func (h *RoomHandler) SlotStatus(c echo.Context) error {
	id := c.Param("id")
	if _, ok := h.Store.Room(id); !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}
	date, ok := h.dateParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	slot := model.TimeSlot{Start: c.QueryParam("start"), End: c.QueryParam("end")}
	if !slot.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid time slot"})
	}
	out := echo.Map{
		"roomId":    id,
		"date":      date,
		"timeSlot":  slot,
		"available": h.Store.IsSlotAvailable(id, date, slot),
	}
	if b, ok := h.Store.GetBookingForSlot(id, date, slot); ok {
		out["booking"] = b
	}
	return c.JSON(http.StatusOK, out)
}

// ReloadRooms reloads the catalog from the source and drops cached
// catalog responses.
func (h *RoomHandler) ReloadRooms(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.Store.LoadRooms(ctx); err != nil {
		return fail(c, h.Store, err)
	}
	if err := middleware.PurgeCache(ctx, h.Redis, h.CachePrefix); err != nil {
		c.Logger().Warnf("purge cache: %v", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": h.Store.Rooms()})
}

// ReloadAvailability reloads every room's availability for ?date=
// (default: the selected date).  Rooms whose fetch failed are skipped;
// any advisory error left by the reload is returned alongside.
func (h *RoomHandler) ReloadAvailability(c echo.Context) error {
	date, ok := h.dateParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	if err := h.Store.LoadAvailability(c.Request().Context(), date); err != nil {
		return fail(c, h.Store, err)
	}
	items := make([]model.Availability, 0)
	for _, r := range h.Store.Rooms() {
		if a, ok := h.Store.Availability(r.ID, date); ok {
			items = append(items, a)
		}
	}
	out := echo.Map{"date": date, "items": items}
	if msg := h.Store.Error(); msg != "" {
		out["error"] = msg
	}
	return c.JSON(http.StatusOK, out)
}
