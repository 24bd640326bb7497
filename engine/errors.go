package engine

import "errors"

// ErrEmptyAnswer means the service returned no text. It is a normal outcome
// for match queries and is never reported as an error event.
var ErrEmptyAnswer = errors.New("service returned no text")
