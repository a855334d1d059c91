package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "siteforge"

// StartOnboardingSpan starts a span for one tenant onboarding attempt.
func StartOnboardingSpan(ctx context.Context, identifier, databaseName string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "tenant.onboard",
		trace.WithAttributes(
			attribute.String("tenant.identifier", identifier),
			attribute.String("tenant.database", databaseName),
		),
	)
}

// StartProvisionSpan starts a span for the provisioning phase of onboarding.
func StartProvisionSpan(ctx context.Context, databaseName string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "tenant.provision",
		trace.WithAttributes(
			attribute.String("tenant.database", databaseName),
		),
	)
}

// StartMigrationSpan starts a span for one tenant migration run within a sweep.
func StartMigrationSpan(ctx context.Context, identifier string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "tenant.migrate",
		trace.WithAttributes(
			attribute.String("tenant.identifier", identifier),
		),
	)
}
