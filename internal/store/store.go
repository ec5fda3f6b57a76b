// Package store is the booking session: it owns the room catalog, the
// booking collection and, through an availability.Resolver, the per room
// availability records, and keeps them consistent across create and
// cancel.
//
// Every collection is guarded by one RWMutex that is never held across a
// call into the source.  Returned values are copies.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/iliyamo/room-booking-grid/internal/availability"
	"github.com/iliyamo/room-booking-grid/internal/model"
	"github.com/iliyamo/room-booking-grid/internal/queue"
	"github.com/iliyamo/room-booking-grid/internal/slotgrid"
	"github.com/iliyamo/room-booking-grid/internal/source"
)

// ViewMode is how the presentation layer lays out the schedule.
type ViewMode string

const (
	ViewDay  ViewMode = "day"
	ViewWeek ViewMode = "week"
)

// claim is an interval reserved for an in-flight create.
type claim struct {
	id     uint64
	roomID string
	date   string
	slot   model.TimeSlot
}

// Store holds the state of one booking session.
type Store struct {
	src       source.Source
	publisher queue.Publisher
	logger    *slog.Logger
	now       func() time.Time
	grid      []model.TimeSlot

	events sync.WaitGroup

	mu           sync.RWMutex
	initialized  bool
	resolver     *availability.Resolver
	rooms        []model.Room
	bookings     []model.Booking
	filters      model.FilterOptions
	selectedDate string
	viewMode     ViewMode
	inflight     int
	lastErr      string
	claims       []claim
	nextClaim    uint64
	cancels      map[string]*pendingCancel
}

// Option configures a Store.
type Option func(*Store)

// WithPublisher sets the destination of booking events.  A nil publisher
// keeps the default, which drops them.
func WithPublisher(p queue.Publisher) Option {
	return func(s *Store) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithClock overrides the clock used for the initial selected date and
// event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithGrid overrides the canonical slot grid.
func WithGrid(grid []model.TimeSlot) Option {
	return func(s *Store) { s.grid = grid }
}

// New returns an uninitialised store over src.  The selected date starts
// at today.
func New(src source.Source, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		src:       src,
		publisher: queue.Nop{},
		logger:    logger.With("component", "store", "mode", string(src.Mode())),
		now:       time.Now,
		viewMode:  ViewDay,
	}
	for _, o := range opts {
		o(s)
	}
	if len(s.grid) == 0 {
		s.grid = slotgrid.Default()
	}
	s.resolver = availability.NewResolver(s.grid)
	s.selectedDate = s.now().Format(model.DateLayout)
	s.filters = model.DefaultFilters(s.selectedDate)
	return s
}

// Mode reports the mode of the underlying source.
func (s *Store) Mode() source.Mode { return s.src.Mode() }

// begin marks the start of an action: the advisory error is cleared and
// the loading flag raised until the returned func runs.
func (s *Store) begin() func() {
	s.mu.Lock()
	s.lastErr = ""
	s.inflight++
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}
}

func (s *Store) advise(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

// Initialize sets up the source.  It may be called again after a failure.
func (s *Store) Initialize(ctx context.Context) error {
	done := s.begin()
	defer done()
	if err := s.src.Initialize(ctx); err != nil {
		s.logger.Error("initialize failed", "err", err)
		s.advise("Failed to initialize provider connection")
		return fmt.Errorf("%w: %w", ErrInitializationFailed, err)
	}
	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()
	s.logger.Info("initialized")
	return nil
}

// Initialized reports whether Initialize has succeeded.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// ensureInitialized runs Initialize for reads issued before it.
func (s *Store) ensureInitialized(ctx context.Context) error {
	if s.Initialized() {
		return nil
	}
	return s.Initialize(ctx)
}

// InitializeData loads the catalog, then the bookings of the selected
// week and the availability of the selected date.  Read failures are
// logged and left in the advisory error; only a failed initialisation is
// returned.
func (s *Store) InitializeData(ctx context.Context) error {
	if err := s.ensureInitialized(ctx); err != nil {
		return err
	}
	if err := s.LoadRooms(ctx); err != nil {
		s.logger.Warn("initial room load failed", "err", err)
	}
	week := s.WeekDates()
	if err := s.LoadBookings(ctx, week[0], week[len(week)-1]); err != nil {
		s.logger.Warn("initial booking load failed", "err", err)
	}
	if err := s.LoadAvailability(ctx, s.SelectedDate()); err != nil {
		s.logger.Warn("initial availability load failed", "err", err)
	}
	return nil
}
