package agent

import (
	"errors"
	"fmt"
)

// ErrNoCredentials means neither an API key nor a Google token source is
// configured.
var ErrNoCredentials = errors.New("no credentials configured")

// StatusError is returned for a non-2xx reply from the AI service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ai service returned status %d: %s", e.Code, e.Body)
}

// StatusCode exposes the HTTP status for transient-error classification.
func (e *StatusError) StatusCode() int {
	return e.Code
}
