// Package session holds the state of one match screen between queries: the
// latest results, the comparison selection, the asset-type filter and the
// open panels. Each query is tagged with a generation token so a slow reply
// that is overtaken by a newer query is dropped instead of applied.
package session

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/landmatch/core/model"
	"github.com/tailored-agentic-units/landmatch/observability"
	"github.com/tailored-agentic-units/landmatch/selection"
)

// Token identifies one query generation.
type Token uint64

// Session is safe for concurrent use.
type Session struct {
	id       string
	observer observability.Observer

	mu         sync.RWMutex
	generation Token
	loading    bool
	mandate    model.Mandate
	matches    []model.MatchCandidate
	sources    []model.GroundingSource
	selected   selection.Set[string]
	filter     selection.Filter
	expanded   selection.Expander[string]
	comparing  bool
	globalMap  bool
}

// Option configures a Session.
type Option func(*Session)

// WithObserver sets the observer that receives session events.
func WithObserver(o observability.Observer) Option {
	return func(s *Session) {
		s.observer = o
	}
}

// NewSession creates an idle session with a UUIDv7 identifier.
func NewSession(opts ...Option) *Session {
	s := &Session{
		id:       uuid.Must(uuid.NewV7()).String(),
		observer: observability.NoOpObserver{},
		filter:   selection.FilterAll,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Begin starts a new query for m. All result-derived state is reset and the
// returned token must be passed to Complete.
func (s *Session) Begin(m model.Mandate) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.loading = true
	s.mandate = m
	s.matches = nil
	s.sources = nil
	s.selected.Clear()
	s.filter = selection.FilterAll
	s.expanded.Collapse()
	s.comparing = false
	s.globalMap = false
	return s.generation
}

// Complete applies result if token is still the latest generation. It
// reports whether the result was applied.
func (s *Session) Complete(ctx context.Context, token Token, result model.MatchResult) bool {
	s.mu.Lock()
	current := s.generation
	if token != current {
		s.mu.Unlock()
		observability.Emit(ctx, s.observer, EventStale, observability.LevelVerbose, "session.Complete", map[string]any{
			"session_id": s.id,
			"token":      uint64(token),
			"current":    uint64(current),
			"matches":    len(result.Matches),
		})
		return false
	}
	defer s.mu.Unlock()

	s.loading = false
	s.matches = slices.Clone(result.Matches)
	s.sources = slices.Clone(result.Sources)
	return true
}

// Loading reports whether a query is in flight.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Mandate returns the parameters of the latest query.
func (s *Session) Mandate() model.Mandate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mandate
}

// Matches returns every candidate of the latest result.
func (s *Session) Matches() []model.MatchCandidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.matches)
}

// Sources returns the grounding sources of the latest result.
func (s *Session) Sources() []model.GroundingSource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.sources)
}

// Visible returns the candidates that pass the active filter.
func (s *Session) Visible() []model.MatchCandidate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter.Apply(s.matches)
}

// Filter returns the active asset-type filter.
func (s *Session) Filter() selection.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetFilter changes the asset-type filter. The selection is kept.
func (s *Session) SetFilter(f selection.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// ToggleExpand opens the detail card for id, or closes it if already open.
func (s *Session) ToggleExpand(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expanded.Toggle(id)
}

// Expanded returns the ID of the open detail card.
func (s *Session) Expanded() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expanded.Expanded()
}

// Selected returns the selected candidate IDs in selection order.
func (s *Session) Selected() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected.Items()
}

// IsSelected reports whether id is in the comparison list.
func (s *Session) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected.Contains(id)
}

// ToggleSelection adds or removes id. Adding to a full selection is ignored.
// It reports whether id is selected afterwards.
func (s *Session) ToggleSelection(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.known(id) {
		return false
	}
	return s.selected.Toggle(id)
}

// ToggleSelectAll deselects every visible candidate when the visible
// selection is saturated (all selected, or capacity reached with some of
// them selected), and otherwise selects visible candidates up to capacity.
func (s *Session) ToggleSelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := selection.IDs(s.filter.Apply(s.matches))
	if s.selected.Saturated(visible) {
		s.selected.DeselectAll(visible)
		return
	}
	s.selected.SelectAll(visible)
}

// SelectionState reports whether the visible selection is saturated and
// whether some visible candidates are selected. all is true exactly when
// the next ToggleSelectAll would deselect.
func (s *Session) SelectionState() (all, some bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	visible := selection.IDs(s.filter.Apply(s.matches))
	return s.selected.Saturated(visible), s.selected.SomeSelected(visible)
}

// OpenComparison selects id if there is room and opens the comparison
// panel. Unknown IDs are ignored.
func (s *Session) OpenComparison(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.known(id) {
		return false
	}
	s.selected.Add(id)
	s.comparing = true
	return true
}

// ShowComparison opens or closes the comparison panel.
func (s *Session) ShowComparison(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comparing = open
}

// Comparing reports whether the comparison panel is open.
func (s *Session) Comparing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.comparing
}

// Comparison summarizes the selected candidates in selection order.
func (s *Session) Comparison() selection.Comparison {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return selection.Compare(s.selectedCandidates())
}

// ShowGlobalMap opens or closes the map of all visible candidates.
func (s *Session) ShowGlobalMap(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globalMap = open
}

// GlobalMapOpen reports whether the global map is open.
func (s *Session) GlobalMapOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.globalMap
}

// MapMarkers returns markers for the visible candidates, highlighting the
// selected ones.
func (s *Session) MapMarkers() []model.MapMarker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return selection.Markers(s.filter.Apply(s.matches), &s.selected)
}

func (s *Session) known(id string) bool {
	return slices.ContainsFunc(s.matches, func(m model.MatchCandidate) bool {
		return m.ID == id
	})
}

func (s *Session) selectedCandidates() []model.MatchCandidate {
	out := make([]model.MatchCandidate, 0, s.selected.Len())
	for _, id := range s.selected.Items() {
		i := slices.IndexFunc(s.matches, func(m model.MatchCandidate) bool {
			return m.ID == id
		})
		if i >= 0 {
			out = append(out, s.matches[i])
		}
	}
	return out
}
