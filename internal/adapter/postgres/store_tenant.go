package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Strob0t/SiteForge/internal/domain"
	"github.com/Strob0t/SiteForge/internal/domain/tenant"
)

const tenantColumns = `id, identifier, name, database_name, connection_string,
	 is_active, feature_settings, isolation_metadata, created_at, updated_at, deleted_at`

func scanTenant(row rowScanner) (tenant.Tenant, error) {
	var t tenant.Tenant
	err := row.Scan(&t.ID, &t.Identifier, &t.Name, &t.DatabaseName, &t.ConnectionString,
		&t.Active, &t.FeatureSettings, &t.IsolationMetadata, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt)
	return t, err
}

// GetTenantByIdentifier returns the non-deleted tenant with the given
// identifier. Identifiers are stored lowercase; the lookup is exact match
// on the normalized key.
func (s *Store) GetTenantByIdentifier(ctx context.Context, identifier string) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+`
		 FROM tenants WHERE identifier = lower($1) AND deleted_at IS NULL`, identifier)

	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get tenant %s: %w", identifier, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get tenant %s: %w", identifier, err)
	}
	return &t, nil
}

// GetTenant returns a tenant by ID, including soft-deleted ones so the
// admin surface can restore them.
func (s *Store) GetTenant(ctx context.Context, id string) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)

	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("get tenant %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get tenant %s: %w", id, err)
	}
	return &t, nil
}

// InsertTenant registers a new tenant with status inactive. Uniqueness of
// identifier and database_name among non-deleted rows is enforced by partial
// unique indexes; a collision maps to domain.ErrConflict so the onboarding
// coordinator can run its re-read path.
func (s *Store) InsertTenant(ctx context.Context, req tenant.OnboardRequest, connString string) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO tenants (identifier, name, database_name, connection_string, feature_settings, isolation_metadata)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+tenantColumns,
		req.Identifier, req.Name, req.DatabaseName, connString, req.FeatureSettings, req.IsolationMetadata)

	t, err := scanTenant(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert tenant %s: %w", req.Identifier, domain.ErrConflict)
		}
		return nil, fmt.Errorf("insert tenant %s: %w", req.Identifier, err)
	}
	return &t, nil
}

// ActivateTenant transitions a tenant to active.
func (s *Store) ActivateTenant(ctx context.Context, id string) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE tenants SET is_active = true, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL
		 RETURNING `+tenantColumns, id)

	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("activate tenant %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("activate tenant %s: %w", id, err)
	}
	return &t, nil
}

// DeactivateAndDeleteTenant is the onboarding compensating action: it marks
// the row inactive and hard-deletes it. Used only for a never-activated
// tenant after provisioning failed.
func (s *Store) DeactivateAndDeleteTenant(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM tenants WHERE id = $1 AND is_active = false`, id)
	if err != nil {
		return fmt.Errorf("delete tenant %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete tenant %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListActiveTenants returns all active, non-deleted tenants, used by the
// fleet migration sweep.
func (s *Store) ListActiveTenants(ctx context.Context) ([]tenant.Tenant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+tenantColumns+`
		 FROM tenants WHERE is_active = true AND deleted_at IS NULL
		 ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list active tenants: %w", err)
	}
	defer rows.Close()

	return collectTenants(rows)
}

// ListTenants returns all tenants including inactive and soft-deleted ones.
func (s *Store) ListTenants(ctx context.Context) ([]tenant.Tenant, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+tenantColumns+` FROM tenants ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	return collectTenants(rows)
}

func collectTenants(rows pgx.Rows) ([]tenant.Tenant, error) {
	var tenants []tenant.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

// UpdateTenant applies display-name/feature/isolation updates. Empty fields
// keep their current value.
func (s *Store) UpdateTenant(ctx context.Context, id string, req tenant.UpdateRequest) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE tenants SET
		   name = COALESCE(NULLIF($2, ''), name),
		   feature_settings = COALESCE(NULLIF($3, '')::jsonb, feature_settings),
		   isolation_metadata = COALESCE(NULLIF($4, '')::jsonb, isolation_metadata),
		   updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL
		 RETURNING `+tenantColumns,
		id, req.Name, req.FeatureSettings, req.IsolationMetadata)

	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("update tenant %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("update tenant %s: %w", id, err)
	}
	return &t, nil
}

// UpdateTenantConnection rewrites database_name and connection_string
// together. The connection string is derived from the database name by the
// caller; the two never change independently.
func (s *Store) UpdateTenantConnection(ctx context.Context, id, databaseName, connString string) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE tenants SET database_name = $2, connection_string = $3, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL
		 RETURNING `+tenantColumns,
		id, databaseName, connString)

	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("update tenant connection %s: %w", id, domain.ErrNotFound)
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("update tenant connection %s: %w", id, domain.ErrConflict)
		}
		return nil, fmt.Errorf("update tenant connection %s: %w", id, err)
	}
	return &t, nil
}

// SoftDeleteTenant marks a tenant deleted and inactive. The row is kept so
// it can be restored; its identifier and database name are freed for reuse
// by the partial unique indexes.
func (s *Store) SoftDeleteTenant(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tenants SET is_active = false, deleted_at = now(), updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete tenant %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("soft delete tenant %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// RestoreTenant clears the soft-delete flag. Restoring is inactive-first:
// the operator re-activates explicitly once the tenant database is verified.
func (s *Store) RestoreTenant(ctx context.Context, id string) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE tenants SET deleted_at = NULL, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NOT NULL
		 RETURNING `+tenantColumns, id)

	t, err := scanTenant(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("restore tenant %s: %w", id, domain.ErrNotFound)
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("restore tenant %s: %w", id, domain.ErrConflict)
		}
		return nil, fmt.Errorf("restore tenant %s: %w", id, err)
	}
	return &t, nil
}
