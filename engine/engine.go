// Package engine runs the three AI-backed queries behind the match screen:
// grounded plot matching, regulatory compliance analysis, and procurement
// risk analysis. Every query absorbs its own failures and returns an empty
// result instead of an error, so callers treat "no results" and "failed"
// the same way and track loading state themselves.
//
//	e, err := engine.New(ctx, cfg)
//	result := e.FindMatches(ctx, model.Mandate{Capital: 5e7, TargetReturn: 18, AssetType: model.MixedUseCommunities})
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tailored-agentic-units/landmatch/agent"
	"github.com/tailored-agentic-units/landmatch/core/protocol"
	"github.com/tailored-agentic-units/landmatch/core/response"
	"github.com/tailored-agentic-units/landmatch/geolocation"
	"github.com/tailored-agentic-units/landmatch/memory"
	"github.com/tailored-agentic-units/landmatch/observability"
	"github.com/tailored-agentic-units/landmatch/retry"
)

// Option configures an Engine after config-driven initialization.
type Option func(*Engine)

// WithAgent overrides the config-created agent.
func WithAgent(a agent.Agent) Option {
	return func(e *Engine) { e.agent = a }
}

// WithLocator overrides the config-created geolocation source.
func WithLocator(l geolocation.Locator) Option {
	return func(e *Engine) { e.locator = l }
}

// WithObserver overrides the configured observer.
func WithObserver(o observability.Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithCache overrides the config-created response cache. A nil cache
// disables caching.
func WithCache(c *memory.Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithSleeper replaces the retry wait, typically with a test clock.
func WithSleeper(s retry.Sleeper) Option {
	return func(e *Engine) { e.sleeper = s }
}

// Engine issues match, compliance, and risk queries. It holds no per-query
// state and is safe for concurrent use.
type Engine struct {
	agent    agent.Agent
	locator  geolocation.Locator
	cache    *memory.Cache
	observer observability.Observer
	sleeper  retry.Sleeper

	retry              retry.Config
	region             string
	candidates         int
	requestTimeout     time.Duration
	geolocationTimeout time.Duration
}

// New creates an Engine from configuration. A missing credential is not an
// error: the engine starts without an agent and every query returns an
// empty result. Options applied after initialization override any
// subsystem.
func New(ctx context.Context, cfg *Config, opts ...Option) (*Engine, error) {
	merged := DefaultConfig()
	if cfg != nil {
		merged.Merge(cfg)
	}

	observer, err := observability.GetObserver(merged.Observer)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		observer:           observer,
		retry:              merged.Retry,
		region:             merged.Region,
		candidates:         merged.Candidates,
		requestTimeout:     merged.RequestTimeout.Std(),
		geolocationTimeout: merged.GeolocationTimeout.Std(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.agent == nil {
		a, err := agent.New(ctx, &merged.Agent)
		switch {
		case errors.Is(err, agent.ErrNoCredentials):
			observability.Emit(ctx, e.observer, EventNoAgent, observability.LevelWarning, "engine.New", map[string]any{
				"error": err.Error(),
			})
		case err != nil:
			return nil, fmt.Errorf("failed to create agent: %w", err)
		default:
			e.agent = a
		}
	}

	if e.locator == nil {
		loc, err := geolocation.New(ctx, &merged.Geolocation)
		if err != nil {
			return nil, fmt.Errorf("failed to create locator: %w", err)
		}
		e.locator = loc
	}

	if e.cache == nil {
		store, err := memory.NewStore(ctx, &merged.Cache)
		if err != nil {
			return nil, fmt.Errorf("failed to create cache store: %w", err)
		}
		if store != nil {
			e.cache = memory.NewCache(store, merged.Cache.TTL.Std())
		}
	}

	return e, nil
}

// HasAgent reports whether the engine can reach the AI service.
func (e *Engine) HasAgent() bool {
	return e.agent != nil
}

// Region returns the configured search scope.
func (e *Engine) Region() string {
	return e.region
}

// generate sends req through the cache and the retry policy.
func (e *Engine) generate(ctx context.Context, source string, req *protocol.GenerateRequest) (*response.GenerateResponse, error) {
	if e.agent == nil {
		return nil, agent.ErrNoCredentials
	}

	modelName := e.agent.Model(req.Mode())

	var key string
	if e.cache != nil {
		k, err := memory.Key(modelName, req)
		if err == nil {
			key = k
			if resp, err := e.cache.Get(ctx, key); err == nil {
				observability.Emit(ctx, e.observer, EventCacheHit, observability.LevelVerbose, source, map[string]any{
					"key": key,
				})
				return resp, nil
			} else if !errors.Is(err, memory.ErrKeyNotFound) {
				e.cacheError(ctx, source, err)
			}
		}
	}

	opts := []retry.Option{retry.WithObserver(e.observer), retry.WithSource(source)}
	if e.sleeper != nil {
		opts = append(opts, retry.WithSleeper(e.sleeper))
	}

	resp, err := retry.Do(ctx, e.retry, func(ctx context.Context) (*response.GenerateResponse, error) {
		return e.agent.Generate(ctx, req)
	}, opts...)
	if err != nil {
		return nil, err
	}

	if key != "" && resp.Text() != "" {
		if err := e.cache.Put(ctx, key, modelName, resp); err != nil {
			e.cacheError(ctx, source, err)
		}
	}
	return resp, nil
}

func (e *Engine) cacheError(ctx context.Context, source string, err error) {
	observability.Emit(ctx, e.observer, EventCacheError, observability.LevelVerbose, source, map[string]any{
		"error": err.Error(),
	})
}

func (e *Engine) fail(ctx context.Context, source string, err error) {
	observability.Emit(ctx, e.observer, EventError, observability.LevelError, source, map[string]any{
		"error": err.Error(),
	})
}
