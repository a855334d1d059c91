package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/jackc/pgx/v5"

	"github.com/Strob0t/SiteForge/internal/domain"
)

// Provisioner implements the provision port: it creates tenant databases on
// the cluster behind the master DSN, applies the tenant migration set, and
// seeds baseline content. All three steps are idempotent so a retried
// onboarding converges.
type Provisioner struct {
	masterDSN string
}

// NewProvisioner creates a Provisioner. masterDSN must belong to a role
// allowed to CREATE DATABASE.
func NewProvisioner(masterDSN string) *Provisioner {
	return &Provisioner{masterDSN: masterDSN}
}

// databaseNameRegex rejects anything that cannot be safely interpolated as
// a quoted identifier. CREATE DATABASE does not take bind parameters.
var databaseNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,62}[a-z0-9]$`)

// CreateDatabase creates the named database if it does not already exist.
func (p *Provisioner) CreateDatabase(ctx context.Context, databaseName string) error {
	if !databaseNameRegex.MatchString(databaseName) {
		return fmt.Errorf("%w: invalid database name %q", domain.ErrValidation, databaseName)
	}

	conn, err := pgx.Connect(ctx, p.masterDSN)
	if err != nil {
		return fmt.Errorf("create database %s: connect: %w", databaseName, err)
	}
	defer func() { _ = conn.Close(ctx) }()

	var exists bool
	err = conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, databaseName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("create database %s: check: %w", databaseName, err)
	}
	if exists {
		slog.Info("tenant database already exists", "database", databaseName)
		return nil
	}

	// CREATE DATABASE cannot run in a transaction or take parameters;
	// the name was validated above.
	if _, err := conn.Exec(ctx, fmt.Sprintf(`CREATE DATABASE %q`, databaseName)); err != nil {
		// A concurrent onboarding may have created it between check and create.
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("create database %s: %w", databaseName, err)
	}

	slog.Info("tenant database created", "database", databaseName)
	return nil
}

// Migrate applies the tenant migration set against the given connection string.
func (p *Provisioner) Migrate(ctx context.Context, connString string) error {
	return RunTenantMigrations(ctx, connString)
}

// Seed writes the baseline configuration and content for a fresh tenant
// database: the default navigation config, a "home" page, and an empty
// "main" menu. Every statement is a no-op when the row already exists.
func (p *Provisioner) Seed(ctx context.Context, connString string) error {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return fmt.Errorf("seed: connect: %w", err)
	}
	defer func() { _ = conn.Close(ctx) }()

	if _, err := conn.Exec(ctx,
		`INSERT INTO navigation_config (id, logo_url, show_search, sticky_header, footer_text)
		 VALUES (1, '', true, true, '')
		 ON CONFLICT (id) DO NOTHING`); err != nil {
		return fmt.Errorf("seed navigation: %w", err)
	}

	if _, err := conn.Exec(ctx,
		`INSERT INTO pages (title, slug, body, published)
		 VALUES ('Home', 'home', '', true)
		 ON CONFLICT (slug) DO NOTHING`); err != nil {
		return fmt.Errorf("seed home page: %w", err)
	}

	if _, err := conn.Exec(ctx,
		`INSERT INTO menus (name)
		 SELECT 'main' WHERE NOT EXISTS (SELECT 1 FROM menus WHERE name = 'main')`); err != nil {
		return fmt.Errorf("seed main menu: %w", err)
	}

	return nil
}
