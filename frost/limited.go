package frost

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Resolver with client-side rate limiting.
type RateLimited struct {
	resolver Resolver
	limiter  *rate.Limiter
	name     string
}

// NewRateLimited creates a rate limited resolver.
// rps is the maximum lookups per second (can be fractional) and burst the
// maximum burst size.
func NewRateLimited(resolver Resolver, rps float64, burst int) *RateLimited {
	return &RateLimited{
		resolver: resolver,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [Rate Limited]", resolver.Name()),
	}
}

// Resolve waits for the limiter and forwards to the wrapped resolver.
func (r *RateLimited) Resolve(ctx context.Context, zip string) (Anchor, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Anchor{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.resolver.Resolve(ctx, zip)
}

// Name returns the resolver name.
func (r *RateLimited) Name() string {
	return r.name
}

// Cached wraps a Resolver and remembers successful lookups for a TTL.
// Failures are not cached.
type Cached struct {
	resolver Resolver
	ttl      time.Duration
	mutex    sync.RWMutex
	cache    map[string]cacheEntry
	hits     int
	misses   int
	now      func() time.Time
}

type cacheEntry struct {
	anchor    Anchor
	timestamp time.Time
}

// NewCached creates a cached resolver.
func NewCached(resolver Resolver, ttl time.Duration) *Cached {
	return &Cached{
		resolver: resolver,
		ttl:      ttl,
		cache:    make(map[string]cacheEntry),
		now:      time.Now,
	}
}

// Resolve returns a cached anchor when it is fresh, otherwise it asks the
// wrapped resolver.
func (c *Cached) Resolve(ctx context.Context, zip string) (Anchor, error) {
	c.mutex.RLock()
	entry, found := c.cache[zip]
	c.mutex.RUnlock()

	if found && c.now().Sub(entry.timestamp) < c.ttl {
		c.mutex.Lock()
		c.hits++
		c.mutex.Unlock()
		return entry.anchor, nil
	}

	c.mutex.Lock()
	c.misses++
	c.mutex.Unlock()

	anchor, err := c.resolver.Resolve(ctx, zip)
	if err != nil {
		return Anchor{}, err
	}

	c.mutex.Lock()
	c.cache[zip] = cacheEntry{anchor: anchor, timestamp: c.now()}
	c.mutex.Unlock()
	return anchor, nil
}

// Name returns the resolver name.
func (c *Cached) Name() string {
	return c.resolver.Name() + " [Cached]"
}

// CacheStats returns statistics about cache hits and misses.
func (c *Cached) CacheStats() (hits, misses int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.hits, c.misses
}

var (
	_ Resolver = (*RateLimited)(nil)
	_ Resolver = (*Cached)(nil)
)
