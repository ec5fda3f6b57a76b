package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking-grid/internal/store"
)

// Health reports liveness plus the data source mode and whether the
// session has been initialised.
func Health(st *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":      "ok",
			"mode":        st.Mode(),
			"initialized": st.Initialized(),
		})
	}
}
