package session

import "github.com/tailored-agentic-units/landmatch/observability"

// EventStale is emitted when a query result arrives after a newer query
// has begun.
const EventStale observability.EventType = "session.stale"
