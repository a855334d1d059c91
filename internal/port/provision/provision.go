// Package provision defines the collaborator contracts consumed during
// tenant onboarding and fleet migration. All three operations are idempotent
// and rerunnable so a retried onboarding converges instead of failing.
package provision

import "context"

// Provisioner creates and prepares tenant databases.
type Provisioner interface {
	// CreateDatabase creates the named database if it does not already exist.
	CreateDatabase(ctx context.Context, databaseName string) error

	// Migrate applies the tenant schema migration set against the given
	// connection string.
	Migrate(ctx context.Context, connString string) error

	// Seed writes the baseline configuration and content for a fresh tenant
	// database (default navigation config, home page, main menu).
	Seed(ctx context.Context, connString string) error
}

// MasterMigrator applies the master schema migration set.
type MasterMigrator interface {
	MigrateMaster(ctx context.Context) error
}
