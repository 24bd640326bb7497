package geolocation

import "errors"

var (
	// ErrUnavailable means no position could be determined.
	ErrUnavailable = errors.New("geolocation unavailable")

	// ErrInvalidPosition means a provider returned a coordinate outside
	// WGS 84 ranges or a non-finite one.
	ErrInvalidPosition = errors.New("geolocation returned an invalid position")

	// ErrUnknownProvider means the configured provider name is not recognized.
	ErrUnknownProvider = errors.New("unknown geolocation provider")
)
