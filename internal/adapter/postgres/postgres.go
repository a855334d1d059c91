// Package postgres provides the PostgreSQL connection pools, the master and
// tenant migration runners, and the store implementations.
package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver for database/sql (needed by goose)
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/database"

	"github.com/Strob0t/SiteForge/internal/config"
)

//go:embed migrations/master/*.sql migrations/tenant/*.sql
var migrations embed.FS

// NewPool creates a pgxpool connection pool from a config.Postgres struct.
func NewPool(ctx context.Context, cfg config.Postgres) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.HealthCheckPeriod = cfg.HealthCheck

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return pool, nil
}

// RunMasterMigrations applies all pending master migrations (tenant registry,
// operator keys) against the given DSN.
func RunMasterMigrations(ctx context.Context, dsn string) error {
	return runMigrations(ctx, dsn, "migrations/master")
}

// RunTenantMigrations applies all pending tenant schema migrations (content
// tables) against the given tenant connection string.
func RunTenantMigrations(ctx context.Context, dsn string) error {
	return runMigrations(ctx, dsn, "migrations/tenant")
}

// runMigrations applies the embedded migration set under dir. It uses the
// goose provider API rather than the package-level API because the fleet
// sweep runs tenant migrations concurrently and the package-level goose
// state is process-global.
func runMigrations(ctx context.Context, dsn, dir string) error {
	sub, err := fs.Sub(migrations, dir)
	if err != nil {
		return fmt.Errorf("migrations fs %s: %w", dir, err)
	}

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open db for migrations: %w", err)
	}
	defer func() { _ = db.Close() }()

	provider, err := goose.NewProvider(database.DialectPostgres, db, sub)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("run migrations %s: %w", dir, err)
	}

	return nil
}

// MasterMigrationVersion returns the current master migration version.
func MasterMigrationVersion(ctx context.Context, dsn string) (int64, error) {
	sub, err := fs.Sub(migrations, "migrations/master")
	if err != nil {
		return 0, fmt.Errorf("migrations fs: %w", err)
	}

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return 0, fmt.Errorf("open db for version: %w", err)
	}
	defer func() { _ = db.Close() }()

	provider, err := goose.NewProvider(database.DialectPostgres, db, sub)
	if err != nil {
		return 0, fmt.Errorf("goose provider: %w", err)
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}

	return version, nil
}
