package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking-grid/internal/model"
)

const patronKey = "patron"

// PatronFrom returns the patron identified by a bearer token on this
// request, if any.
func PatronFrom(c echo.Context) (model.Patron, bool) {
	p, ok := c.Get(patronKey).(model.Patron)
	return p, ok
}

// userID identifies the caller for rate limit keys.  Anonymous callers
// are "guest".
func userID(c echo.Context) string {
	if p, ok := PatronFrom(c); ok && p.ID != "" {
		return p.ID
	}
	return "guest"
}
