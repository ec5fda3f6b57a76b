package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking-grid/internal/store"
)

// statusOf maps store errors to HTTP status codes.  ErrBookingNotFound
// wraps ErrMutationFailed, so it is matched first.
func statusOf(err error) int {
	switch {
	case errors.Is(err, store.ErrSlotConflict):
		return http.StatusConflict
	case errors.Is(err, store.ErrBookingNotFound), errors.Is(err, store.ErrUnknownRoom):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidBooking), errors.Is(err, store.ErrInvalidFilter):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotInitialized), errors.Is(err, store.ErrInitializationFailed):
		return http.StatusServiceUnavailable
	case errors.Is(err, store.ErrMutationFailed), errors.Is(err, store.ErrFetchFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// fail writes err as a JSON error body.  Client errors carry the error
// text; upstream failures carry the store's advisory message instead of
// provider details.
func fail(c echo.Context, st *store.Store, err error) error {
	code := statusOf(err)
	if code < http.StatusInternalServerError {
		return c.JSON(code, echo.Map{"error": err.Error()})
	}
	msg := st.Error()
	if msg == "" {
		msg = http.StatusText(code)
	}
	return c.JSON(code, echo.Map{"error": msg})
}
