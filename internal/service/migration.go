package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Strob0t/SiteForge/internal/adapter/otel"
	"github.com/Strob0t/SiteForge/internal/domain/tenant"
	"github.com/Strob0t/SiteForge/internal/port/database"
)

// MigrationRunner applies migration sets. The master and tenant sets are
// separate: the master set targets the registry database, the tenant set
// targets one tenant database identified by its connection string.
type MigrationRunner interface {
	MigrateMaster(ctx context.Context) error
	MigrateTenant(ctx context.Context, connString string) error
}

// SweepReport summarizes one fleet migration sweep.
type SweepReport struct {
	Total    int           `json:"total"`
	Migrated int           `json:"migrated"`
	Failed   int           `json:"failed"`
	Batches  int           `json:"batches"`
	Duration time.Duration `json:"duration"`
}

// Migration runs schema migrations across the tenant fleet. Tenants are
// processed in sequential batches; within a batch up to maxParallel run
// concurrently. A failed tenant is recorded and skipped, never aborting
// the sweep, so one broken database cannot block the rest of the fleet.
type Migration struct {
	store       database.MasterStore
	runner      MigrationRunner
	batchSize   int
	maxParallel int64
	metrics     *otel.Metrics
	logger      *slog.Logger
}

// NewMigration creates the fleet migration service. metrics may be nil.
func NewMigration(store database.MasterStore, runner MigrationRunner, batchSize, maxParallel int, metrics *otel.Metrics, logger *slog.Logger) *Migration {
	if batchSize < 1 {
		batchSize = 1
	}
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Migration{
		store:       store,
		runner:      runner,
		batchSize:   batchSize,
		maxParallel: int64(maxParallel),
		metrics:     metrics,
		logger:      logger,
	}
}

// MigrateMaster applies the master migration set.
func (m *Migration) MigrateMaster(ctx context.Context) error {
	return m.runner.MigrateMaster(ctx)
}

// SweepTenants migrates every active tenant database. The returned error
// joins the per-tenant failures; the report is returned alongside it.
func (m *Migration) SweepTenants(ctx context.Context) (*SweepReport, error) {
	start := time.Now()

	tenants, err := m.store.ListActiveTenants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active tenants: %w", err)
	}

	report := &SweepReport{Total: len(tenants)}
	var errs []error

	for _, batch := range batchTenants(tenants, m.batchSize) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		report.Batches++
		migrated, batchErrs := m.runBatch(ctx, batch)
		report.Migrated += migrated
		errs = append(errs, batchErrs...)
	}

	report.Failed = report.Total - report.Migrated
	report.Duration = time.Since(start)
	m.logger.Info("tenant migration sweep finished",
		"total", report.Total,
		"migrated", report.Migrated,
		"failed", report.Failed,
		"batches", report.Batches,
		"duration", report.Duration,
	)
	return report, errors.Join(errs...)
}

// runBatch migrates one batch with at most maxParallel tenants in flight.
func (m *Migration) runBatch(ctx context.Context, batch []tenant.Tenant) (int, []error) {
	sem := semaphore.NewWeighted(m.maxParallel)
	results := make(chan error, len(batch))

	for _, t := range batch {
		if err := sem.Acquire(ctx, 1); err != nil {
			results <- fmt.Errorf("tenant %s: %w", t.Identifier, err)
			continue
		}
		go func(t tenant.Tenant) {
			defer sem.Release(1)
			results <- m.migrateOne(ctx, t)
		}(t)
	}

	var migrated int
	var errs []error
	for range batch {
		if err := <-results; err != nil {
			errs = append(errs, err)
		} else {
			migrated++
		}
	}
	return migrated, errs
}

func (m *Migration) migrateOne(ctx context.Context, t tenant.Tenant) error {
	ctx, span := otel.StartMigrationSpan(ctx, t.Identifier)
	defer span.End()

	start := time.Now()
	err := m.runner.MigrateTenant(ctx, t.ConnectionString)
	elapsed := time.Since(start)

	if m.metrics != nil {
		m.metrics.MigrationDuration.Record(ctx, elapsed.Seconds())
	}
	if err != nil {
		m.logger.Error("tenant migration failed", "identifier", t.Identifier, "duration", elapsed, "error", err)
		return fmt.Errorf("tenant %s: %w", t.Identifier, err)
	}
	m.logger.Info("tenant migrated", "identifier", t.Identifier, "duration", elapsed)
	return nil
}

// batchTenants splits the fleet into consecutive batches of at most size.
func batchTenants(tenants []tenant.Tenant, size int) [][]tenant.Tenant {
	var batches [][]tenant.Tenant
	for len(tenants) > 0 {
		n := min(size, len(tenants))
		batches = append(batches, tenants[:n])
		tenants = tenants[n:]
	}
	return batches
}
