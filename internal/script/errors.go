package script

import "errors"

// Errors for script operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNotFunction is returned when calling a global that is not a function.
	ErrNotFunction = errors.New("not a lua function")

	// ErrBadDeclarations is returned when events_listening does not return
	// a table keyed by event name.
	ErrBadDeclarations = errors.New("events_listening must return a table keyed by event name")
)
