package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Strob0t/SiteForge/internal/adapter/otel"
	"github.com/Strob0t/SiteForge/internal/domain"
	"github.com/Strob0t/SiteForge/internal/domain/tenant"
	"github.com/Strob0t/SiteForge/internal/port/database"
	"github.com/Strob0t/SiteForge/internal/port/messagequeue"
	"github.com/Strob0t/SiteForge/internal/port/provision"
)

// onboardingState names the phases of one onboarding attempt. Transitions
// are logged so an operator can see exactly where an attempt stopped.
type onboardingState string

const (
	stateRequested    onboardingState = "requested"
	stateRegistering  onboardingState = "registering"
	stateProvisioning onboardingState = "provisioning"
	stateActivating   onboardingState = "activating"
	stateCompleted    onboardingState = "completed"
	stateRollingBack  onboardingState = "rolling_back"
	stateFailed       onboardingState = "failed"
)

// Onboarding orchestrates tenant creation: register an inactive row,
// provision the database, then activate. Any failure after registration
// compensates by deleting the inactive row, so the registry never keeps a
// half-provisioned tenant. Calls for an already-active identifier are
// idempotent and return the existing tenant; an inactive registration is
// reported as a conflict, never as success.
type Onboarding struct {
	store       database.MasterStore
	provisioner provision.Provisioner
	connStr     *tenant.ConnStringBuilder
	cache       *TenantCache
	queue       messagequeue.Queue
	metrics     *otel.Metrics
	logger      *slog.Logger
}

// NewOnboarding creates the onboarding orchestrator. queue and metrics may
// be nil; events and counters are then skipped.
func NewOnboarding(
	store database.MasterStore,
	provisioner provision.Provisioner,
	connStr *tenant.ConnStringBuilder,
	cache *TenantCache,
	queue messagequeue.Queue,
	metrics *otel.Metrics,
	logger *slog.Logger,
) *Onboarding {
	return &Onboarding{
		store:       store,
		provisioner: provisioner,
		connStr:     connStr,
		cache:       cache,
		queue:       queue,
		metrics:     metrics,
		logger:      logger,
	}
}

// Onboard runs one onboarding attempt for the given request.
func (o *Onboarding) Onboard(ctx context.Context, req tenant.OnboardRequest) (*tenant.OnboardResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, span := otel.StartOnboardingSpan(ctx, req.Identifier, req.DatabaseName)
	defer span.End()

	log := o.logger.With("identifier", req.Identifier, "database", req.DatabaseName)
	log.Info("onboarding requested", "state", stateRequested)

	// Idempotency: an identifier that already resolves to an active tenant
	// is returned as-is. An inactive row means another attempt is still
	// provisioning, or a restored tenant awaits explicit activation; either
	// way the identifier is taken and the conflict stands.
	if existing, err := o.store.GetTenantByIdentifier(ctx, req.Identifier); err == nil {
		if existing.Active {
			log.Info("onboarding short-circuited, tenant already active", "tenant_id", existing.ID)
			return &tenant.OnboardResult{TenantID: existing.ID, Existing: true, Active: true}, nil
		}
		return nil, fmt.Errorf("%w: tenant %q exists but is not active", domain.ErrConflict, req.Identifier)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	connString, err := o.connStr.Build(req.DatabaseName)
	if err != nil {
		return nil, err
	}

	log.Info("onboarding state change", "state", stateRegistering)
	t, err := o.store.InsertTenant(ctx, req, connString)
	if errors.Is(err, domain.ErrConflict) {
		// Lost a race on identifier or database name. Re-read: only an
		// active tenant under this identifier is the idempotent outcome.
		// An inactive row belongs to a winner that may yet roll back, so
		// its ID must not be handed out as a success.
		if existing, rerr := o.store.GetTenantByIdentifier(ctx, req.Identifier); rerr == nil && existing.Active {
			log.Info("onboarding lost insert race to an active tenant", "tenant_id", existing.ID)
			return &tenant.OnboardResult{TenantID: existing.ID, Existing: true, Active: true}, nil
		}
		return nil, fmt.Errorf("%w: identifier %q or database name %q is already in use", domain.ErrConflict, req.Identifier, req.DatabaseName)
	}
	if err != nil {
		return nil, err
	}
	log = log.With("tenant_id", t.ID)

	if err := o.provisionAndActivate(ctx, t, log); err != nil {
		o.rollback(ctx, t, log, err)
		if o.metrics != nil {
			o.metrics.OnboardingsFailed.Add(ctx, 1)
		}
		return nil, err
	}

	if o.metrics != nil {
		o.metrics.TenantsOnboarded.Add(ctx, 1)
	}
	o.publish(ctx, messagequeue.SubjectTenantOnboarded, t, log)
	log.Info("onboarding state change", "state", stateCompleted)

	return &tenant.OnboardResult{TenantID: t.ID, Existing: false, Active: true}, nil
}

func (o *Onboarding) provisionAndActivate(ctx context.Context, t *tenant.Tenant, log *slog.Logger) error {
	log.Info("onboarding state change", "state", stateProvisioning)
	pctx, span := otel.StartProvisionSpan(ctx, t.DatabaseName)
	err := o.provisionDatabase(pctx, t)
	span.End()
	if err != nil {
		return err
	}

	log.Info("onboarding state change", "state", stateActivating)
	activated, err := o.store.ActivateTenant(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("activate tenant: %w", err)
	}

	// Warm the cache with the active snapshot so the first request does
	// not pay a registry round trip.
	if err := o.cache.Set(ctx, activated); err != nil {
		log.Warn("cache warm failed after activation", "error", err)
	}
	return nil
}

func (o *Onboarding) provisionDatabase(ctx context.Context, t *tenant.Tenant) error {
	if err := o.provisioner.CreateDatabase(ctx, t.DatabaseName); err != nil {
		return fmt.Errorf("create database %s: %w", t.DatabaseName, err)
	}
	if err := o.provisioner.Migrate(ctx, t.ConnectionString); err != nil {
		return fmt.Errorf("migrate database %s: %w", t.DatabaseName, err)
	}
	if err := o.provisioner.Seed(ctx, t.ConnectionString); err != nil {
		return fmt.Errorf("seed database %s: %w", t.DatabaseName, err)
	}
	return nil
}

// rollback compensates a failed attempt by removing the inactive registry
// row. The tenant database, if it was created, is left in place: it is
// inert without a registry row and a retried onboarding reuses it.
func (o *Onboarding) rollback(ctx context.Context, t *tenant.Tenant, log *slog.Logger, cause error) {
	log.Error("onboarding failed, rolling back", "state", stateRollingBack, "error", cause)
	if err := o.store.DeactivateAndDeleteTenant(ctx, t.ID); err != nil {
		log.Error("onboarding rollback failed, registry row left behind", "state", stateFailed, "error", err)
		return
	}
	if err := o.cache.Invalidate(ctx, t.Identifier); err != nil {
		log.Warn("cache invalidation failed during rollback", "error", err)
	}
	log.Info("onboarding state change", "state", stateFailed)
}

func (o *Onboarding) publish(ctx context.Context, subject string, t *tenant.Tenant, log *slog.Logger) {
	if o.queue == nil {
		return
	}
	data, err := json.Marshal(messagequeue.TenantEvent{TenantID: t.ID, Identifier: t.Identifier})
	if err != nil {
		return
	}
	if err := o.queue.Publish(ctx, subject, data); err != nil {
		log.Warn("event publish failed", "subject", subject, "error", err)
	}
}
