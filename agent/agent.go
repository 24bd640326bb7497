// Package agent issues generateContent calls to the AI service. An Agent
// picks the grounded or structured model from the request's mode, applies
// credentials, and turns non-2xx replies into *StatusError so the retry
// policy can classify them.
package agent

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/landmatch/agent/providers"
	"github.com/tailored-agentic-units/landmatch/core/config"
	"github.com/tailored-agentic-units/landmatch/core/protocol"
	"github.com/tailored-agentic-units/landmatch/core/response"
)

// maxErrorBody caps how much of an error reply is kept in StatusError.
const maxErrorBody = 4096

// Agent sends requests to a generative-AI service.
type Agent interface {
	// ID returns the agent's unique identifier.
	ID() string

	// Model returns the model name used for requests of the given mode.
	Model(mode protocol.Mode) string

	// Generate sends req and returns the parsed reply.
	Generate(ctx context.Context, req *protocol.GenerateRequest) (*response.GenerateResponse, error)
}

// Option configures an agent at construction.
type Option func(*agent)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(a *agent) { a.client = c }
}

// WithCredentials bypasses credential resolution.
func WithCredentials(c Credentials) Option {
	return func(a *agent) { a.creds = c }
}

// WithProvider replaces the Gemini provider.
func WithProvider(p providers.Provider) Option {
	return func(a *agent) { a.provider = p }
}

type agent struct {
	id       string
	cfg      config.AgentConfig
	provider providers.Provider
	creds    Credentials
	client   *http.Client
}

// New creates an Agent from cfg merged over the defaults. Credentials are
// resolved unless supplied with WithCredentials; ErrNoCredentials is
// returned when none are available.
func New(ctx context.Context, cfg *config.AgentConfig, opts ...Option) (Agent, error) {
	merged := config.DefaultAgentConfig()
	if cfg != nil {
		merged.Merge(cfg)
	}

	a := &agent{
		id:  uuid.Must(uuid.NewV7()).String(),
		cfg: merged,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.provider == nil {
		a.provider = providers.NewGemini(merged.BaseURL)
	}
	if a.client == nil {
		a.client = &http.Client{Timeout: merged.Timeout.Std()}
	}
	if a.creds == nil {
		creds, err := ResolveCredentials(ctx, &merged)
		if err != nil {
			return nil, err
		}
		a.creds = creds
	}

	return a, nil
}

func (a *agent) ID() string {
	return a.id
}

func (a *agent) Model(mode protocol.Mode) string {
	if mode == protocol.Structured {
		return a.cfg.StructuredModel
	}
	return a.cfg.GroundedModel
}

func (a *agent) Generate(ctx context.Context, req *protocol.GenerateRequest) (*response.GenerateResponse, error) {
	body, err := a.provider.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := a.provider.Endpoint(a.Model(req.Mode()))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	if err := a.creds.Apply(httpReq); err != nil {
		return nil, err
	}

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(data) > maxErrorBody {
			data = data[:maxErrorBody]
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: string(data)}
	}

	return a.provider.Parse(data)
}
