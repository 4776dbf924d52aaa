// Package dedupe tracks recently seen report ids for idempotent ingestion.
package dedupe

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Default expiry settings.
const (
	DefaultTTL             = time.Hour
	DefaultCleanupInterval = 10 * time.Minute
)

// Deduper records seen report IDs to ensure at-most-once processing within a TTL window.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen list, allowing it to be retried.
	// Used when a report was marked as seen but could not be queued.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of remembered ids, including expired ones not yet swept.
	Size() int64
}

// cacheDeduper implements Deduper over a go-cache TTL cache.
type cacheDeduper struct {
	ttl             time.Duration
	cleanupInterval time.Duration
	cache           *gocache.Cache
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &cacheDeduper{
		ttl:             DefaultTTL,
		cleanupInterval: DefaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.cache = gocache.New(d.ttl, d.cleanupInterval)
	return d
}

func (d *cacheDeduper) SeenAndRecord(_ context.Context, id string) bool {
	// Add fails only when a live entry already exists.
	return d.cache.Add(id, struct{}{}, gocache.DefaultExpiration) != nil
}

func (d *cacheDeduper) Unrecord(_ context.Context, id string) {
	d.cache.Delete(id)
}

func (d *cacheDeduper) Size() int64 {
	return int64(d.cache.ItemCount())
}
