package mapview

import "errors"

var (
	// ErrClosed is returned by operations on a View after Close.
	ErrClosed = errors.New("map view closed")

	// ErrNotAttached is returned when a view is asked to act on a canvas it
	// has not opened yet.
	ErrNotAttached = errors.New("map view not attached")
)
