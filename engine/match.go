package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tailored-agentic-units/landmatch/core/geo"
	"github.com/tailored-agentic-units/landmatch/core/model"
	"github.com/tailored-agentic-units/landmatch/core/protocol"
	"github.com/tailored-agentic-units/landmatch/geolocation"
	"github.com/tailored-agentic-units/landmatch/ingest"
	"github.com/tailored-agentic-units/landmatch/observability"
)

const matchSource = "engine.FindMatches"

// FindMatches asks the AI service for plots fitting the mandate. Any failure,
// including an invalid mandate or a missing credential, is reported to the
// observer and yields an empty result.
func (e *Engine) FindMatches(ctx context.Context, m model.Mandate) model.MatchResult {
	result, err := e.findMatches(ctx, m)
	if err != nil {
		if !errors.Is(err, ErrEmptyAnswer) {
			e.fail(ctx, matchSource, err)
		}
		return model.EmptyResult()
	}
	return result
}

func (e *Engine) findMatches(ctx context.Context, m model.Mandate) (model.MatchResult, error) {
	if err := m.Validate(); err != nil {
		return model.MatchResult{}, err
	}

	if e.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.requestTimeout)
		defer cancel()
	}

	observability.Emit(ctx, e.observer, EventMatchStart, observability.LevelInfo, matchSource, map[string]any{
		"capital":       m.Capital,
		"target_return": m.TargetReturn,
		"asset_type":    string(m.AssetType),
		"region":        e.region,
	})

	var position *protocol.LatLng
	if p := e.locate(ctx, m); p != nil {
		position = &protocol.LatLng{Latitude: p.Lat, Longitude: p.Lng}
	}

	req := protocol.NewGrounded(MatchPrompt(m, e.region, e.candidates), position, protocol.MapsTool())

	resp, err := e.generate(ctx, matchSource, req)
	if err != nil {
		return model.MatchResult{}, err
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		e.complete(ctx, 0, 0, position != nil)
		return model.MatchResult{}, ErrEmptyAnswer
	}

	matches, err := ingest.ParseMatches(text)
	if err != nil {
		return model.MatchResult{}, err
	}
	sources := ingest.ExtractSources(resp.Grounding())

	e.complete(ctx, len(matches), len(sources), position != nil)
	return model.MatchResult{Matches: matches, Sources: sources}, nil
}

// locate returns the mandate's own position, or a best-effort lookup bounded
// by the geolocation timeout. Failure is logged and yields nil.
func (e *Engine) locate(ctx context.Context, m model.Mandate) *geo.Point {
	if m.Location != nil && m.Location.Valid() {
		p := *m.Location
		return &p
	}
	if e.locator == nil {
		return nil
	}

	lctx := ctx
	if e.geolocationTimeout > 0 {
		var cancel context.CancelFunc
		lctx, cancel = context.WithTimeout(ctx, e.geolocationTimeout)
		defer cancel()
	}

	p, err := e.locator.Locate(lctx)
	if err == nil && !p.Valid() {
		err = fmt.Errorf("%w: %v", geolocation.ErrInvalidPosition, p)
	}
	if err != nil {
		observability.Emit(ctx, e.observer, EventGeolocationUnavailable, observability.LevelVerbose, matchSource, map[string]any{
			"error": err.Error(),
		})
		return nil
	}
	return &p
}

func (e *Engine) complete(ctx context.Context, matches, sources int, located bool) {
	observability.Emit(ctx, e.observer, EventMatchComplete, observability.LevelInfo, matchSource, map[string]any{
		"matches": matches,
		"sources": sources,
		"located": located,
	})
}
