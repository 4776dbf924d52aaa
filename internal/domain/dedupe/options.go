package dedupe

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Option applies a configuration option to the deduper.
type Option func(*cacheDeduper)

// WithTTL sets how long an id is remembered. Non-positive values keep ids forever.
func WithTTL(ttl time.Duration) Option {
	return func(d *cacheDeduper) {
		if ttl <= 0 {
			d.ttl = gocache.NoExpiration
			return
		}
		d.ttl = ttl
	}
}

// WithCleanupInterval sets how often expired ids are swept.
func WithCleanupInterval(interval time.Duration) Option {
	return func(d *cacheDeduper) {
		if interval > 0 {
			d.cleanupInterval = interval
		}
	}
}
