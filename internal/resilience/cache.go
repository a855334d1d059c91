package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/Strob0t/SiteForge/internal/port/cache"
)

// GuardedCache wraps a cache behind a circuit breaker. It fronts the remote
// L2 tier: when the breaker is open, Get degrades to a miss and Set/Delete
// become no-ops, so an L2 outage falls back to L1 plus the registry instead
// of failing requests. Skipped deletes are covered by the bucket TTL.
type GuardedCache struct {
	inner   cache.Cache
	breaker *Breaker
}

// Guard wraps the given cache with the given breaker.
func Guard(inner cache.Cache, breaker *Breaker) *GuardedCache {
	return &GuardedCache{inner: inner, breaker: breaker}
}

// Get reads through the breaker. An open circuit reads as a miss.
func (g *GuardedCache) Get(ctx context.Context, key string) (data []byte, ok bool, err error) {
	execErr := g.breaker.Execute(func() error {
		var innerErr error
		data, ok, innerErr = g.inner.Get(ctx, key)
		return innerErr
	})
	if execErr != nil {
		if errors.Is(execErr, ErrCircuitOpen) {
			return nil, false, nil
		}
		return nil, false, execErr
	}
	return data, ok, nil
}

// Set writes through the breaker. An open circuit drops the write.
func (g *GuardedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := g.breaker.Execute(func() error {
		return g.inner.Set(ctx, key, value, ttl)
	})
	if errors.Is(err, ErrCircuitOpen) {
		return nil
	}
	return err
}

// Delete removes through the breaker. An open circuit drops the delete;
// the entry expires with the bucket TTL.
func (g *GuardedCache) Delete(ctx context.Context, key string) error {
	err := g.breaker.Execute(func() error {
		return g.inner.Delete(ctx, key)
	})
	if errors.Is(err, ErrCircuitOpen) {
		return nil
	}
	return err
}
