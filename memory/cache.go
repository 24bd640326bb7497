package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tailored-agentic-units/landmatch/core/protocol"
	"github.com/tailored-agentic-units/landmatch/core/response"
)

// record is the stored form of a cached reply.
type record struct {
	Model     string                     `json:"model"`
	CreatedAt time.Time                  `json:"created_at"`
	Response  *response.GenerateResponse `json:"response"`
}

// Cache serves AI replies keyed by model and request body. Lookups check an
// in-process index before the Store. All methods are safe for concurrent use.
type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time

	mu  sync.RWMutex
	hot map[string]record
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// NewCache creates a Cache over store. A non-positive ttl never expires.
func NewCache(store Store, ttl time.Duration, opts ...CacheOption) *Cache {
	c := &Cache{
		store: store,
		ttl:   ttl,
		now:   time.Now,
		hot:   make(map[string]record),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key derives the cache key for a request sent to model.
func Key(model string, req *protocol.GenerateRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	sum := sha256.New()
	sum.Write([]byte(model))
	sum.Write([]byte{0})
	sum.Write(body)

	dir := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(model)
	if dir == "" {
		dir = "default"
	}
	return fmt.Sprintf("%s/%s/%s.json", NamespaceResponses, dir, hex.EncodeToString(sum.Sum(nil))), nil
}

// Get returns the cached reply for key. A miss or an expired entry yields
// ErrKeyNotFound.
func (c *Cache) Get(ctx context.Context, key string) (*response.GenerateResponse, error) {
	c.mu.RLock()
	rec, ok := c.hot[key]
	c.mu.RUnlock()

	if !ok {
		entries, err := c.store.Load(ctx, key)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(entries[0].Value, &rec); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadFailed, key, err)
		}

		c.mu.Lock()
		c.hot[key] = rec
		c.mu.Unlock()
	}

	if c.expired(rec) {
		return nil, fmt.Errorf("%w: %s expired", ErrKeyNotFound, key)
	}
	return rec.Response, nil
}

// Put stores resp under key, writing through to the Store.
func (c *Cache) Put(ctx context.Context, key, model string, resp *response.GenerateResponse) error {
	rec := record{Model: model, CreatedAt: c.now(), Response: resp}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSaveFailed, key, err)
	}
	if err := c.store.Save(ctx, Entry{Key: key, Value: data}); err != nil {
		return err
	}

	c.mu.Lock()
	c.hot[key] = rec
	c.mu.Unlock()
	return nil
}

// Purge deletes expired entries from the Store and returns how many were
// removed. Entries that fail to decode are removed as well.
func (c *Cache) Purge(ctx context.Context) (int, error) {
	keys, err := c.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge list: %w", err)
	}

	var stale []string
	for _, key := range keys {
		if !strings.HasPrefix(key, NamespaceResponses+"/") {
			continue
		}
		entries, err := c.store.Load(ctx, key)
		if err != nil {
			if errors.Is(err, ErrKeyNotFound) {
				continue
			}
			return 0, fmt.Errorf("purge load: %w", err)
		}

		var rec record
		if err := json.Unmarshal(entries[0].Value, &rec); err != nil || c.expired(rec) {
			stale = append(stale, key)
		}
	}

	if len(stale) == 0 {
		return 0, nil
	}
	if err := c.store.Delete(ctx, stale...); err != nil {
		return 0, fmt.Errorf("purge delete: %w", err)
	}

	c.mu.Lock()
	for _, key := range stale {
		delete(c.hot, key)
	}
	c.mu.Unlock()

	return len(stale), nil
}

func (c *Cache) expired(rec record) bool {
	return c.ttl > 0 && c.now().Sub(rec.CreatedAt) > c.ttl
}
