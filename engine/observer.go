package engine

import "github.com/tailored-agentic-units/landmatch/observability"

// Engine event types.
const (
	EventMatchStart             observability.EventType = "engine.match.start"
	EventMatchComplete          observability.EventType = "engine.match.complete"
	EventAnalysisComplete       observability.EventType = "engine.analysis.complete"
	EventGeolocationUnavailable observability.EventType = "engine.geolocation.unavailable"
	EventCacheHit               observability.EventType = "engine.cache.hit"
	EventCacheError             observability.EventType = "engine.cache.error"
	EventNoAgent                observability.EventType = "engine.agent.missing"
	EventError                  observability.EventType = "engine.error"
)
