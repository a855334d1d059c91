package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Strob0t/SiteForge/internal/config"
)

// Pools lazily opens and caches one small connection pool per tenant
// database, keyed by connection string. Pools are shared across requests;
// a tenant's pool is created on first use and lives until CloseAll.
type Pools struct {
	mu    sync.Mutex
	pools map[string]*pgxpool.Pool
	cfg   config.Postgres
}

// NewPools creates a tenant pool manager using the tenant pool settings
// from cfg (TenantMaxConns caps each pool).
func NewPools(cfg config.Postgres) *Pools {
	return &Pools{
		pools: make(map[string]*pgxpool.Pool),
		cfg:   cfg,
	}
}

// Get returns the pool for the given tenant connection string, opening it
// on first use. Concurrent first calls for the same tenant are serialized;
// later calls are a map lookup.
func (p *Pools) Get(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pool, ok := p.pools[connString]; ok {
		return pool, nil
	}

	poolCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse tenant dsn: %w", err)
	}
	poolCfg.MaxConns = p.cfg.TenantMaxConns
	poolCfg.MaxConnLifetime = p.cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = p.cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create tenant pool: %w", err)
	}

	p.pools[connString] = pool
	slog.Debug("tenant pool opened", "database", poolCfg.ConnConfig.Database)
	return pool, nil
}

// Evict closes and forgets the pool for the given connection string.
// Called when a tenant's connection is rewritten or the tenant is deleted.
func (p *Pools) Evict(connString string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pool, ok := p.pools[connString]; ok {
		pool.Close()
		delete(p.pools, connString)
	}
}

// CloseAll closes every tenant pool. Called on shutdown.
func (p *Pools) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for cs, pool := range p.pools {
		pool.Close()
		delete(p.pools, cs)
	}
}
