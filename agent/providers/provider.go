// Package providers adapts generateContent requests to a concrete AI
// service's REST surface.
package providers

import (
	"github.com/tailored-agentic-units/landmatch/core/protocol"
	"github.com/tailored-agentic-units/landmatch/core/response"
)

// Provider builds endpoints, request bodies, and parses replies for one
// AI service.
type Provider interface {
	Name() string
	BaseURL() string

	// Endpoint returns the full URL for a generate call against model.
	Endpoint(model string) string

	// Marshal converts the request to a JSON body.
	Marshal(req *protocol.GenerateRequest) ([]byte, error)

	// Parse decodes a successful reply body.
	Parse(body []byte) (*response.GenerateResponse, error)
}
