package observability

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// ErrUnknownObserver is returned by GetObserver for unregistered names.
var ErrUnknownObserver = errors.New("unknown observer")

var (
	mutex     sync.RWMutex
	observers = map[string]Observer{
		"noop": NoOpObserver{},
		"slog": NewSlogObserver(nil),
	}
)

// GetObserver resolves a registered observer. A comma-separated list such as
// "slog,audit" yields a MultiObserver over each named observer. The built-in
// "slog" observer follows slog.Default, so callers configure logging with
// slog.SetDefault rather than re-registering it.
func GetObserver(name string) (Observer, error) {
	mutex.RLock()
	defer mutex.RUnlock()

	names := strings.Split(name, ",")
	resolved := make([]Observer, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		obs, ok := observers[n]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownObserver, n)
		}
		resolved = append(resolved, obs)
	}
	if len(resolved) == 1 {
		return resolved[0], nil
	}
	return NewMultiObserver(resolved...), nil
}

// RegisterObserver adds or replaces a named observer. Names may not contain
// commas.
func RegisterObserver(name string, observer Observer) error {
	if name == "" || strings.Contains(name, ",") {
		return fmt.Errorf("invalid observer name %q", name)
	}
	if observer == nil {
		return fmt.Errorf("observer %q is nil", name)
	}

	mutex.Lock()
	defer mutex.Unlock()
	observers[name] = observer
	return nil
}

// Observers lists the registered names in sorted order.
func Observers() []string {
	mutex.RLock()
	defer mutex.RUnlock()
	return slices.Sorted(maps.Keys(observers))
}
