package weather

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// CacheTTL is how long a successful reading stays valid.
const CacheTTL = 600 * time.Second

// ResultCache memoizes successful readings per key for a fixed TTL and collapses
// concurrent computations for the same key into one.
type ResultCache struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

// NewResultCache creates a cache on top of the given store.
func NewResultCache(store Store, logger *slog.Logger) *ResultCache {
	return &ResultCache{
		store:  store,
		ttl:    CacheTTL,
		logger: logger,
	}
}

// GetOrCompute returns the cached reading for key, or runs compute and caches
// its result. A failed computation is never stored. hit reports whether the
// reading came from the store; callers that joined an in-flight computation
// get hit=false.
func (c *ResultCache) GetOrCompute(
	ctx context.Context,
	key string,
	compute func(ctx context.Context) (Reading, error),
) (Reading, bool, error) {
	if r, ok := c.lookup(ctx, key); ok {
		return r, true, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A flight that finished just before this one started may have filled the entry.
		if r, ok := c.lookup(ctx, key); ok {
			return flightResult{reading: r, hit: true}, nil
		}

		r, err := compute(ctx)
		if err != nil {
			return nil, err
		}

		if err := c.store.Set(ctx, key, r, c.ttl); err != nil {
			c.logger.Warn("cache write failed", "key", key, "err", err)
		}
		return flightResult{reading: r}, nil
	})
	if err != nil {
		return Reading{}, false, err
	}
	res := v.(flightResult)
	return res.reading, res.hit, nil
}

type flightResult struct {
	reading Reading
	hit     bool
}

// Sweep removes expired entries from the underlying store.
func (c *ResultCache) Sweep(ctx context.Context) int {
	return c.store.Sweep(ctx)
}

func (c *ResultCache) lookup(ctx context.Context, key string) (Reading, bool) {
	r, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed; treating as miss", "key", key, "err", err)
		return Reading{}, false
	}
	return r, ok
}
