package adapters

import (
	"context"
	"fmt"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Default TTL behavior for memory backends: entries never expire unless the
// spec URI says otherwise.
const (
	DefaultMemoryTTL             = gocache.NoExpiration
	defaultMemoryCleanupInterval = 10 * time.Minute
)

// MemoryAdapter is a TTL key-value backend for ephemeral data (sessions,
// fixtures, test doubles). It needs no external endpoint; an optional URI of
// the form "memory://?ttl=5m" sets the default entry TTL.
type MemoryAdapter struct {
	BaseAdapter
	cache *gocache.Cache
}

func init() {
	RegisterKind("memory", NewMemoryAdapter)
}

// NewMemoryAdapter builds an in-memory backend. An empty uri is valid.
func NewMemoryAdapter(name, uri string) (Adapter, error) {
	ttl, err := memoryTTL(uri)
	if err != nil {
		return nil, fmt.Errorf("memory adapter %q: %w", name, err)
	}

	return &MemoryAdapter{
		BaseAdapter: BaseAdapter{name: name, kind: "memory"},
		cache:       gocache.New(ttl, defaultMemoryCleanupInterval),
	}, nil
}

func memoryTTL(uri string) (time.Duration, error) {
	if uri == "" {
		return DefaultMemoryTTL, nil
	}
	u, err := url.Parse(uri)
	if err != nil {
		return 0, fmt.Errorf("invalid uri %q: %w", uri, err)
	}
	raw := u.Query().Get("ttl")
	if raw == "" {
		return DefaultMemoryTTL, nil
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid ttl %q: %w", raw, err)
	}
	return ttl, nil
}

// Set stores a value under key with the adapter's default TTL.
func (a *MemoryAdapter) Set(key string, value any) {
	a.cache.SetDefault(key, value)
}

// Get retrieves a value by key.
func (a *MemoryAdapter) Get(key string) (any, bool) {
	return a.cache.Get(key)
}

// Delete removes a value by key. Deleting a missing key is a no-op.
func (a *MemoryAdapter) Delete(key string) {
	a.cache.Delete(key)
}

// Len reports the number of live entries.
func (a *MemoryAdapter) Len() int {
	return a.cache.ItemCount()
}

// Ping always succeeds; the backend is the process itself.
func (a *MemoryAdapter) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close drops all entries.
func (a *MemoryAdapter) Close() error {
	a.cache.Flush()
	return nil
}
