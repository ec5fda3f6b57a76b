package store

import (
	"errors"
	"fmt"
)

var (
	// ErrInitializationFailed: provider setup failed.  Provider calls stay
	// unavailable until Initialize succeeds.
	ErrInitializationFailed = errors.New("initialization failed")
	// ErrNotInitialized is returned by mutations issued before Initialize.
	ErrNotInitialized = errors.New("store not initialized")
	// ErrFetchFailed: a read failed and the collection fell back to empty.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrMutationFailed: create or cancel failed; local state is unchanged.
	ErrMutationFailed = errors.New("mutation failed")

	ErrBookingCancelFailed = fmt.Errorf("booking cancel failed: %w", ErrMutationFailed)
	ErrBookingNotFound     = fmt.Errorf("booking not found: %w", ErrMutationFailed)

	// ErrSlotConflict: a slot intersecting the requested interval is taken.
	ErrSlotConflict = errors.New("slot conflict")
	// ErrInvalidBooking: the request is structurally invalid.
	ErrInvalidBooking = errors.New("invalid booking request")
	// ErrInvalidFilter: a filter or date update is malformed.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrUnknownRoom: the room is not in the loaded catalog.
	ErrUnknownRoom = errors.New("unknown room")
)
