package postgres

import "context"

// Migrator applies the embedded migration sets. It satisfies the service
// layer's MigrationRunner.
type Migrator struct {
	masterDSN string
}

// NewMigrator creates a Migrator bound to the master DSN.
func NewMigrator(masterDSN string) *Migrator {
	return &Migrator{masterDSN: masterDSN}
}

// MigrateMaster applies the master migration set to the registry database.
func (m *Migrator) MigrateMaster(ctx context.Context) error {
	return RunMasterMigrations(ctx, m.masterDSN)
}

// MigrateTenant applies the tenant migration set to one tenant database.
func (m *Migrator) MigrateTenant(ctx context.Context, connString string) error {
	return RunTenantMigrations(ctx, connString)
}
