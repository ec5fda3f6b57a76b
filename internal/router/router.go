// Package router mounts the booking session API on an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/room-booking-grid/internal/config"
	"github.com/iliyamo/room-booking-grid/internal/handler"
	"github.com/iliyamo/room-booking-grid/internal/middleware"
	"github.com/iliyamo/room-booking-grid/internal/store"
)

// Options carries the middleware settings shared by the route groups.
type Options struct {
	JWTSecret       string
	RequireIdentity bool
	Cache           config.CacheConfig
	RateLimit       config.RateLimitConfig
	Redis           *redis.Client
}

// Register mounts every route for st.
func Register(e *echo.Echo, st *store.Store, opts Options) {
	RegisterRoutes(e, st)
	v1 := e.Group("/v1", middleware.PatronIdentity(opts.JWTSecret))
	RegisterCatalog(v1, &handler.RoomHandler{Store: st, Redis: opts.Redis, CachePrefix: opts.Cache.Prefix}, opts)
	RegisterBookings(v1, &handler.BookingHandler{Store: st}, opts)
	RegisterSession(v1, &handler.SessionHandler{Store: st})
}

// RegisterRoutes registers the unauthenticated health check.
func RegisterRoutes(e *echo.Echo, st *store.Store) {
	e.GET("/healthz", handler.Health(st))
}

// RegisterCatalog registers room, slot and availability routes.  Catalog
// reads go through the Redis response cache; availability is never
// cached since every booking changes it.
func RegisterCatalog(g *echo.Group, h *handler.RoomHandler, opts Options) {
	cache := middleware.NewRedisCache(opts.Cache, opts.Redis)
	g.GET("/rooms", h.ListRooms, cache)
	g.GET("/rooms/search", h.SearchRooms, cache)
	g.GET("/slots", h.Slots, cache)
	g.GET("/rooms/:id/availability", h.RoomAvailability)
	g.GET("/rooms/:id/slot", h.SlotStatus)
	g.POST("/rooms/reload", h.ReloadRooms)
	g.POST("/availability/reload", h.ReloadAvailability)
}

// RegisterBookings registers booking routes.  Mutations are rate limited
// and, with RequireIdentity, need a bearer token.
func RegisterBookings(g *echo.Group, h *handler.BookingHandler, opts Options) {
	g.GET("/bookings", h.ListBookings)
	g.GET("/bookings/:id", h.GetBooking)

	var mw []echo.MiddlewareFunc
	if opts.RequireIdentity {
		mw = append(mw, middleware.RequirePatron())
	}
	mw = append(mw, middleware.NewTokenBucket(opts.RateLimit, opts.Redis))
	g.POST("/bookings", h.CreateBooking, mw...)
	g.POST("/bookings/:id/cancel", h.CancelBooking, mw...)
}

// RegisterSession registers the session state routes.
func RegisterSession(g *echo.Group, h *handler.SessionHandler) {
	g.GET("/state", h.State)
	g.PUT("/filters", h.UpdateFilters)
	g.PUT("/date", h.SetDate)
	g.PUT("/view", h.SetView)
	g.GET("/week", h.Week)
}
