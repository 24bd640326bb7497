// Package mock provides a scripted Agent for tests.
package mock

import (
	"context"
	"sync"

	"github.com/tailored-agentic-units/landmatch/core/protocol"
	"github.com/tailored-agentic-units/landmatch/core/response"
)

// Reply is one scripted outcome of Generate.
type Reply struct {
	Response *response.GenerateResponse
	Err      error
}

// MockAgent returns scripted replies in order. Once the script is exhausted
// the last reply repeats. It records every request it receives.
type MockAgent struct {
	id     string
	mu     sync.Mutex
	script []Reply
	route  func(*protocol.GenerateRequest) Reply
	calls  []*protocol.GenerateRequest
}

// NewMockAgent creates a MockAgent with the given script.
func NewMockAgent(replies ...Reply) *MockAgent {
	return &MockAgent{id: "mock-agent", script: replies}
}

// NewTextAgent creates a MockAgent that always answers with text.
func NewTextAgent(text string, grounding *response.GroundingMetadata) *MockAgent {
	return NewMockAgent(Reply{Response: response.Text(text, grounding)})
}

// NewErrorAgent creates a MockAgent that always fails with err.
func NewErrorAgent(err error) *MockAgent {
	return NewMockAgent(Reply{Err: err})
}

// NewRoutingAgent creates a MockAgent that picks each reply from the
// request, for tests that issue different queries concurrently.
func NewRoutingAgent(route func(*protocol.GenerateRequest) Reply) *MockAgent {
	return &MockAgent{id: "mock-agent", route: route}
}

func (m *MockAgent) ID() string {
	return m.id
}

func (m *MockAgent) Model(mode protocol.Mode) string {
	return "mock-" + string(mode)
}

func (m *MockAgent) Generate(ctx context.Context, req *protocol.GenerateRequest) (*response.GenerateResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.route != nil {
		reply := m.route(req)
		return reply.Response, reply.Err
	}
	if len(m.script) == 0 {
		return &response.GenerateResponse{}, nil
	}

	idx := len(m.calls) - 1
	if idx >= len(m.script) {
		idx = len(m.script) - 1
	}
	reply := m.script[idx]
	return reply.Response, reply.Err
}

// Calls returns the requests received so far.
func (m *MockAgent) Calls() []*protocol.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*protocol.GenerateRequest(nil), m.calls...)
}

// CallCount returns how many times Generate was invoked.
func (m *MockAgent) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
