// Package geolocation supplies the investor's approximate position. Lookups
// are best-effort: callers bound them with a short timeout and continue
// without a position when a Locator fails.
package geolocation

import (
	"context"
	"fmt"

	"github.com/tailored-agentic-units/landmatch/core/geo"
)

// Locator resolves the current position.
type Locator interface {
	Locate(ctx context.Context) (geo.Point, error)
}

// Static always reports the same point.
type Static geo.Point

func (s Static) Locate(ctx context.Context) (geo.Point, error) {
	if err := ctx.Err(); err != nil {
		return geo.Point{}, err
	}
	p := geo.Point(s)
	if !p.Valid() {
		return geo.Point{}, fmt.Errorf("%w: invalid static point %v", ErrUnavailable, p)
	}
	return p, nil
}

// None never has a position.
type None struct{}

func (None) Locate(ctx context.Context) (geo.Point, error) {
	return geo.Point{}, ErrUnavailable
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (geo.Point, error)

func (f LocatorFunc) Locate(ctx context.Context) (geo.Point, error) {
	return f(ctx)
}
