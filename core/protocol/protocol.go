// Package protocol defines the request wire format for the generative-AI
// service. Requests come in two modes: grounded requests use a retrieval
// tool and describe the output shape in prose, while structured requests
// declare a response schema the service enforces.
package protocol

// Mode identifies how a request constrains the service's output.
type Mode string

const (
	// Grounded requests enable a grounding tool. Strict schema output is
	// unavailable in this mode, so the response is free text.
	Grounded Mode = "grounded"
	// Structured requests set a JSON response schema and MIME type.
	Structured Mode = "structured"
)

// IsValid reports whether s names a supported mode.
func IsValid(s string) bool {
	for _, m := range ValidModes() {
		if string(m) == s {
			return true
		}
	}
	return false
}

// ValidModes returns all supported modes.
func ValidModes() []Mode {
	return []Mode{Grounded, Structured}
}
