package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Strob0t/SiteForge/internal/adapter/otel"
	"github.com/Strob0t/SiteForge/internal/domain"
	"github.com/Strob0t/SiteForge/internal/domain/tenant"
	"github.com/Strob0t/SiteForge/internal/port/database"
)

// Resolver maps a tenant identifier from the request edge to a Session.
// Lookups go cache-first; a miss falls back to the registry and backfills
// the cache. Unknown, soft-deleted and inactive tenants all resolve to
// domain.ErrNotFound so the edge cannot distinguish them.
type Resolver struct {
	store   database.MasterStore
	cache   *TenantCache
	metrics *otel.Metrics
	logger  *slog.Logger
}

// NewResolver creates a Resolver. metrics may be nil.
func NewResolver(store database.MasterStore, cache *TenantCache, metrics *otel.Metrics, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, cache: cache, metrics: metrics, logger: logger}
}

// Resolve returns the Session for an active tenant identifier.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (tenant.Session, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" {
		return tenant.Session{}, fmt.Errorf("%w: tenant identifier is required", domain.ErrValidation)
	}

	if t, ok, err := r.cache.Get(ctx, identifier); err != nil {
		r.logger.Warn("tenant cache read failed", "identifier", identifier, "error", err)
	} else if ok {
		if r.metrics != nil {
			r.metrics.ResolverCacheHits.Add(ctx, 1)
		}
		if !t.Active {
			return tenant.Session{}, domain.ErrNotFound
		}
		return sessionFor(t), nil
	}

	if r.metrics != nil {
		r.metrics.ResolverCacheMiss.Add(ctx, 1)
	}

	t, err := r.store.GetTenantByIdentifier(ctx, identifier)
	if err != nil {
		return tenant.Session{}, err
	}

	if !t.Active {
		return tenant.Session{}, domain.ErrNotFound
	}

	// Only active snapshots are backfilled. Caching an inactive tenant
	// would keep rejecting it for a full TTL after activation.
	if err := r.cache.Set(ctx, t); err != nil {
		r.logger.Warn("tenant cache write failed", "identifier", identifier, "error", err)
	}
	return sessionFor(t), nil
}

func sessionFor(t *tenant.Tenant) tenant.Session {
	return tenant.Session{
		TenantID:         t.ID,
		Identifier:       t.Identifier,
		ConnectionString: t.ConnectionString,
	}
}
