// Package memory caches AI service replies so repeated identical queries do
// not re-spend quota. Entries live in a pluggable Store keyed by a hash of
// the model and request; the Cache layers a TTL and an in-process index on
// top.
package memory

import "context"

// Store persists raw cache entries. Implementations perform I/O on each
// call and hold no expiry logic of their own.
type Store interface {
	// List returns all keys in the store.
	List(ctx context.Context) ([]string, error)
	// Load retrieves entries for the specified keys.
	Load(ctx context.Context, keys ...string) ([]Entry, error)
	// Save persists entries, creating or overwriting as needed.
	Save(ctx context.Context, entries ...Entry) error
	// Delete removes entries. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
