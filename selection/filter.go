package selection

import "github.com/tailored-agentic-units/landmatch/core/model"

// Filter narrows the visible candidates by their type label.
type Filter string

// Filter values offered on the match screen.
const (
	FilterAll         Filter = "All"
	FilterResidential Filter = "Residential"
	FilterCommercial  Filter = "Commercial"
	FilterMixedUse    Filter = "Mixed-Use"
)

// Filters lists the filter values in display order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterResidential, FilterCommercial, FilterMixedUse}
}

// Matches reports whether c passes the filter. The empty filter behaves
// like FilterAll.
func (f Filter) Matches(c model.MatchCandidate) bool {
	return f == "" || f == FilterAll || c.Type == string(f)
}

// Apply returns the candidates passing the filter, in order.
func (f Filter) Apply(matches []model.MatchCandidate) []model.MatchCandidate {
	out := make([]model.MatchCandidate, 0, len(matches))
	for _, m := range matches {
		if f.Matches(m) {
			out = append(out, m)
		}
	}
	return out
}

// IDs returns the candidate IDs in order.
func IDs(matches []model.MatchCandidate) []string {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.ID
	}
	return ids
}

// Expander tracks the single expanded card.
type Expander[K comparable] struct {
	key K
	set bool
}

// Toggle expands k, or collapses it when it is already expanded.
func (e *Expander[K]) Toggle(k K) {
	if e.set && e.key == k {
		e.Collapse()
		return
	}
	e.key, e.set = k, true
}

// Expanded returns the expanded key, if any.
func (e *Expander[K]) Expanded() (K, bool) {
	return e.key, e.set
}

// IsExpanded reports whether k is the expanded key.
func (e *Expander[K]) IsExpanded(k K) bool {
	return e.set && e.key == k
}

// Collapse clears the expanded key.
func (e *Expander[K]) Collapse() {
	var zero K
	e.key, e.set = zero, false
}
