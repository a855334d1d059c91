package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Strob0t/SiteForge/internal/domain"
	"github.com/Strob0t/SiteForge/internal/domain/tenant"
	"github.com/Strob0t/SiteForge/internal/port/database"
	"github.com/Strob0t/SiteForge/internal/port/messagequeue"
)

// ConnEvictor drops a pooled connection set for a connection string. The
// admin service evicts after a connection rewrite so stale pools are not
// reused for a renamed database.
type ConnEvictor interface {
	Evict(connString string)
}

// Tenants is the admin-facing tenant management service. Every mutation
// invalidates the local cache, the feature partition, and publishes an
// invalidation event so other instances drop their snapshots too.
type Tenants struct {
	store    database.MasterStore
	connStr  *tenant.ConnStringBuilder
	cache    *TenantCache
	features *FeatureCache
	evictor  ConnEvictor
	queue    messagequeue.Queue
	logger   *slog.Logger
}

// NewTenants creates the tenant admin service. evictor and queue may be nil.
func NewTenants(
	store database.MasterStore,
	connStr *tenant.ConnStringBuilder,
	cache *TenantCache,
	features *FeatureCache,
	evictor ConnEvictor,
	queue messagequeue.Queue,
	logger *slog.Logger,
) *Tenants {
	return &Tenants{
		store:    store,
		connStr:  connStr,
		cache:    cache,
		features: features,
		evictor:  evictor,
		queue:    queue,
		logger:   logger,
	}
}

// List returns every tenant, including inactive and soft-deleted ones.
func (s *Tenants) List(ctx context.Context) ([]tenant.Tenant, error) {
	return s.store.ListTenants(ctx)
}

// Get returns one tenant by ID.
func (s *Tenants) Get(ctx context.Context, id string) (*tenant.Tenant, error) {
	return s.store.GetTenant(ctx, id)
}

// Update changes a tenant's name or settings documents.
func (s *Tenants) Update(ctx context.Context, id string, req tenant.UpdateRequest) (*tenant.Tenant, error) {
	if req.FeatureSettings != "" && !json.Valid([]byte(req.FeatureSettings)) {
		return nil, fmt.Errorf("%w: feature settings is not valid JSON", domain.ErrValidation)
	}
	if req.IsolationMetadata != "" && !json.Valid([]byte(req.IsolationMetadata)) {
		return nil, fmt.Errorf("%w: isolation metadata is not valid JSON", domain.ErrValidation)
	}

	t, err := s.store.UpdateTenant(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, t)
	return t, nil
}

// UpdateConnection renames a tenant's database and rewrites the derived
// connection string in the same statement, then evicts any pool opened
// against the old connection string.
func (s *Tenants) UpdateConnection(ctx context.Context, id string, upd tenant.ConnectionUpdate) (*tenant.Tenant, error) {
	old, err := s.store.GetTenant(ctx, id)
	if err != nil {
		return nil, err
	}

	connString, err := s.connStr.Build(upd.DatabaseName)
	if err != nil {
		return nil, err
	}

	t, err := s.store.UpdateTenantConnection(ctx, id, upd.DatabaseName, connString)
	if err != nil {
		return nil, err
	}

	if s.evictor != nil && old.ConnectionString != t.ConnectionString {
		s.evictor.Evict(old.ConnectionString)
	}
	s.invalidate(ctx, t)
	return t, nil
}

// SoftDelete marks a tenant deleted. Its identifier and database name
// become reusable; the tenant database itself is untouched.
func (s *Tenants) SoftDelete(ctx context.Context, id string) error {
	t, err := s.store.GetTenant(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.SoftDeleteTenant(ctx, id); err != nil {
		return err
	}
	if s.evictor != nil {
		s.evictor.Evict(t.ConnectionString)
	}
	s.invalidate(ctx, t)
	return nil
}

// Restore undeletes a tenant. The restored tenant comes back inactive and
// must be re-activated via Activate; restore fails with a conflict if the
// identifier or database name was reused in the meantime.
func (s *Tenants) Restore(ctx context.Context, id string) (*tenant.Tenant, error) {
	t, err := s.store.RestoreTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, t)
	return t, nil
}

// Activate transitions a tenant to active so it resolves again. This is
// the second half of the restore flow; onboarding activates through its
// own state machine.
func (s *Tenants) Activate(ctx context.Context, id string) (*tenant.Tenant, error) {
	t, err := s.store.ActivateTenant(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, t)
	return t, nil
}

// invalidate drops the local snapshot and feature partition, then tells
// the rest of the fleet to do the same.
func (s *Tenants) invalidate(ctx context.Context, t *tenant.Tenant) {
	if err := s.cache.Invalidate(ctx, t.Identifier); err != nil {
		s.logger.Warn("tenant cache invalidation failed", "identifier", t.Identifier, "error", err)
	}
	if err := s.features.InvalidateTenant(ctx, t.ID); err != nil {
		s.logger.Warn("feature cache invalidation failed", "tenant_id", t.ID, "error", err)
	}
	if s.queue == nil {
		return
	}
	data, err := json.Marshal(messagequeue.TenantEvent{TenantID: t.ID, Identifier: t.Identifier})
	if err != nil {
		return
	}
	if err := s.queue.Publish(ctx, messagequeue.SubjectTenantInvalidated, data); err != nil {
		s.logger.Warn("invalidation event publish failed", "identifier", t.Identifier, "error", err)
	}
}
