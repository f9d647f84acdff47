package locfeed

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sotakimura/rain-lookup/internal/domain"
	"github.com/sotakimura/rain-lookup/internal/observability"
)

// DirectorySource builds one directory snapshot from the remote feed.
type DirectorySource interface {
	FetchDirectory(ctx context.Context) (domain.Directory, error)
}

// SnapshotCache holds one immutable directory snapshot for a bounded time
// window and rebuilds it transparently on expiry. Rebuilds are idempotent
// pure reads of the same feed, so any valid snapshot is interchangeable;
// the snapshot is replaced, never mutated.
type SnapshotCache struct {
	source  DirectorySource
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics

	mu       sync.Mutex
	snapshot domain.Directory
	expires  time.Time
	valid    bool
}

// NewSnapshotCache creates a cache around source with the given TTL.
func NewSnapshotCache(source DirectorySource, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *SnapshotCache {
	return &SnapshotCache{
		source:  source,
		ttl:     ttl,
		clock:   clock,
		metrics: metrics,
	}
}

// GetOrRebuild returns the cached snapshot, rebuilding it first when the
// window has lapsed or no snapshot exists yet. A failed rebuild returns the
// error and leaves the cache empty; the next call retries.
func (c *SnapshotCache) GetOrRebuild(ctx context.Context) (domain.Directory, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.valid && now.Before(c.expires) {
		c.metrics.DirectoryCache.WithLabelValues("hit").Inc()
		return c.snapshot, nil
	}
	c.metrics.DirectoryCache.WithLabelValues("miss").Inc()

	dir, err := c.source.FetchDirectory(ctx)
	if err != nil {
		c.valid = false
		return domain.Directory{}, err
	}

	c.snapshot = dir
	c.expires = now.Add(c.ttl)
	c.valid = true
	return dir, nil
}

// Ready reports whether a usable snapshot is currently cached. Used by the
// readiness probe; it never triggers a rebuild.
func (c *SnapshotCache) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.valid && !c.snapshot.Empty() && c.clock.Now().Before(c.expires)
}
