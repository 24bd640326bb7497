package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
)

type mapStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMapStore creates a process-local Store.
func NewMapStore() Store {
	return &mapStore{entries: make(map[string][]byte)}
}

func (s *mapStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *mapStore) Load(_ context.Context, keys ...string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		v, ok := s.entries[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		entries = append(entries, Entry{Key: key, Value: slices.Clone(v)})
	}
	return entries, nil
}

func (s *mapStore) Save(_ context.Context, entries ...Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if !validKey(e.Key) {
			return fmt.Errorf("%w: %q", ErrInvalidKey, e.Key)
		}
		s.entries[e.Key] = slices.Clone(e.Value)
	}
	return nil
}

func (s *mapStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}
