// Package selection holds the comparison-list state of the match screen:
// a bounded, insertion-ordered selection set, the asset-type filter, the
// single expanded card, and the derived comparison summary.
package selection

// Capacity is the maximum number of candidates that can be compared at once.
const Capacity = 5

// Set is an insertion-ordered set bounded at Capacity. The zero value is an
// empty set ready for use. Set is not safe for concurrent use; the session
// package serializes access.
type Set[K comparable] struct {
	items []K
}

// Len returns the number of selected keys.
func (s *Set[K]) Len() int {
	return len(s.items)
}

// Contains reports whether k is selected.
func (s *Set[K]) Contains(k K) bool {
	return s.index(k) >= 0
}

// Items returns the selected keys in insertion order.
func (s *Set[K]) Items() []K {
	return append([]K(nil), s.items...)
}

// Full reports whether the set is at capacity.
func (s *Set[K]) Full() bool {
	return len(s.items) >= Capacity
}

// Toggle removes k if present, otherwise adds it if there is room. It
// reports whether k is selected afterwards.
func (s *Set[K]) Toggle(k K) bool {
	if i := s.index(k); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
		return false
	}
	return s.Add(k)
}

// Add selects k if there is room. Adding a present key is a no-op that
// reports true.
func (s *Set[K]) Add(k K) bool {
	if s.Contains(k) {
		return true
	}
	if s.Full() {
		return false
	}
	s.items = append(s.items, k)
	return true
}

// SelectAll adds each visible key in order until the set is full.
func (s *Set[K]) SelectAll(visible []K) {
	for _, k := range visible {
		if s.Full() {
			return
		}
		s.Add(k)
	}
}

// DeselectAll removes every visible key.
func (s *Set[K]) DeselectAll(visible []K) {
	drop := make(map[K]struct{}, len(visible))
	for _, k := range visible {
		drop[k] = struct{}{}
	}

	kept := s.items[:0]
	for _, k := range s.items {
		if _, ok := drop[k]; !ok {
			kept = append(kept, k)
		}
	}
	s.items = kept
}

// AllSelected reports whether every visible key is selected. An empty
// visible list is never "all selected".
func (s *Set[K]) AllSelected(visible []K) bool {
	if len(visible) == 0 {
		return false
	}
	for _, k := range visible {
		if !s.Contains(k) {
			return false
		}
	}
	return true
}

// Saturated reports whether selecting the visible keys cannot go further:
// every one is selected, or the set is full and holds at least one of them.
func (s *Set[K]) Saturated(visible []K) bool {
	return s.AllSelected(visible) || (s.Full() && s.SomeSelected(visible))
}

// SomeSelected reports whether at least one visible key is selected.
func (s *Set[K]) SomeSelected(visible []K) bool {
	for _, k := range visible {
		if s.Contains(k) {
			return true
		}
	}
	return false
}

// Clear empties the set.
func (s *Set[K]) Clear() {
	s.items = nil
}

func (s *Set[K]) index(k K) int {
	for i, item := range s.items {
		if item == k {
			return i
		}
	}
	return -1
}
