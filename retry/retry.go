// Package retry wraps a single external call with bounded exponential
// backoff. Only transient failures are retried: transport errors and
// server-side (5xx) statuses. Everything else propagates on the first
// attempt, unchanged.
//
//	resp, err := retry.Do(ctx, cfg, func(ctx context.Context) (*response.GenerateResponse, error) {
//		return a.Generate(ctx, req)
//	})
package retry

import (
	"context"
	"time"

	"github.com/tailored-agentic-units/landmatch/observability"
)

// EventAttempt is emitted before each backoff wait.
const EventAttempt observability.EventType = "retry.attempt"

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Option configures a single Do invocation.
type Option func(*policy)

// WithSleeper replaces the wall-clock wait, typically with a test clock.
func WithSleeper(s Sleeper) Option {
	return func(p *policy) { p.sleep = s }
}

// WithObserver reports each retry to o.
func WithObserver(o observability.Observer) Option {
	return func(p *policy) { p.observer = o }
}

// WithClassifier replaces IsTransient.
func WithClassifier(fn func(error) bool) Option {
	return func(p *policy) { p.transient = fn }
}

// WithSource sets the event source reported to the observer.
func WithSource(source string) Option {
	return func(p *policy) { p.source = source }
}

type policy struct {
	sleep     Sleeper
	observer  observability.Observer
	transient func(error) bool
	source    string
}

// Do invokes op, retrying transient failures up to cfg's retry budget. The
// delay starts at the configured initial delay and doubles after each
// attempt. The final error is returned as-is so callers can inspect it with
// errors.Is and errors.As. Cancelling ctx during a wait returns ctx.Err().
func Do[T any](ctx context.Context, cfg Config, op func(context.Context) (T, error), opts ...Option) (T, error) {
	p := policy{
		sleep:     sleepContext,
		transient: IsTransient,
		source:    "retry.Do",
	}
	for _, opt := range opts {
		opt(&p)
	}

	retries := cfg.Retries()
	delay := cfg.InitialDelay.Std()

	for {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		if retries <= 0 || !p.transient(err) {
			return result, err
		}

		observability.Emit(ctx, p.observer, EventAttempt, observability.LevelWarning, p.source, map[string]any{
			"error":     err.Error(),
			"delay":     delay.String(),
			"remaining": retries,
		})

		if werr := p.sleep(ctx, delay); werr != nil {
			var zero T
			return zero, werr
		}

		retries--
		delay *= 2
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
