package ingest

import "errors"

var (
	// ErrNoJSON means no decodable JSON payload could be located in the text.
	ErrNoJSON = errors.New("no JSON payload found")

	// ErrNotArray means the payload decoded but its outer value is not an array.
	ErrNotArray = errors.New("payload is not a JSON array")
)
