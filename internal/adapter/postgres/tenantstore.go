package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/SiteForge/internal/domain/tenant"
)

// TenantStore implements database.ContentStore against per-tenant databases.
// Every query routes through the tenant session bound to the request
// context; an unbound context fails with domain.ErrTenantContext before any
// connection is touched.
type TenantStore struct {
	pools *Pools
}

// NewTenantStore creates a TenantStore on top of the tenant pool manager.
func NewTenantStore(pools *Pools) *TenantStore {
	return &TenantStore{pools: pools}
}

// conn resolves the bound tenant session and returns that tenant's pool.
func (s *TenantStore) conn(ctx context.Context) (*pgxpool.Pool, error) {
	sess, err := tenant.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	pool, err := s.pools.Get(ctx, sess.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("tenant %s: %w", sess.Identifier, err)
	}
	return pool, nil
}
