package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements database.MasterStore using PostgreSQL.
// It holds the pool for the shared master database; per-tenant content
// access goes through TenantStore instead.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given master connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// rowScanner abstracts pgx.Row and pgx.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}
