package source

import "errors"

// ErrMalformedResponse is returned when a provider response cannot be
// decoded into a well typed record or fails validation.  No defaults are
// guessed for missing fields.
var ErrMalformedResponse = errors.New("malformed provider response")

// ErrUnauthenticated is returned by provider calls made before a
// successful Initialize.
var ErrUnauthenticated = errors.New("provider not authenticated")
