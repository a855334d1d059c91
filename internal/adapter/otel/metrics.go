package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "siteforge"

// Metrics holds all SiteForge metric instruments.
type Metrics struct {
	TenantsOnboarded  metric.Int64Counter
	OnboardingsFailed metric.Int64Counter
	ResolverCacheHits metric.Int64Counter
	ResolverCacheMiss metric.Int64Counter
	MigrationDuration metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.TenantsOnboarded, err = meter.Int64Counter("siteforge.tenants.onboarded",
		metric.WithDescription("Number of tenants onboarded"))
	if err != nil {
		return nil, err
	}

	m.OnboardingsFailed, err = meter.Int64Counter("siteforge.tenants.onboarding_failed",
		metric.WithDescription("Number of onboarding attempts rolled back"))
	if err != nil {
		return nil, err
	}

	m.ResolverCacheHits, err = meter.Int64Counter("siteforge.resolver.cache_hits",
		metric.WithDescription("Tenant resolutions served from cache"))
	if err != nil {
		return nil, err
	}

	m.ResolverCacheMiss, err = meter.Int64Counter("siteforge.resolver.cache_misses",
		metric.WithDescription("Tenant resolutions that fell back to the registry"))
	if err != nil {
		return nil, err
	}

	m.MigrationDuration, err = meter.Float64Histogram("siteforge.migration.duration_seconds",
		metric.WithDescription("Duration of one tenant migration run"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
