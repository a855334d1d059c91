// Package database defines the database store ports (interfaces).
package database

import (
	"context"

	"github.com/Strob0t/SiteForge/internal/domain/operator"
	"github.com/Strob0t/SiteForge/internal/domain/tenant"
)

// MasterStore is the port interface for the shared master database holding
// the tenant registry and operator keys.
type MasterStore interface {
	// Tenant registry
	GetTenantByIdentifier(ctx context.Context, identifier string) (*tenant.Tenant, error)
	InsertTenant(ctx context.Context, req tenant.OnboardRequest, connString string) (*tenant.Tenant, error)
	ActivateTenant(ctx context.Context, id string) (*tenant.Tenant, error)
	DeactivateAndDeleteTenant(ctx context.Context, id string) error
	ListActiveTenants(ctx context.Context) ([]tenant.Tenant, error)
	ListTenants(ctx context.Context) ([]tenant.Tenant, error)
	GetTenant(ctx context.Context, id string) (*tenant.Tenant, error)
	UpdateTenant(ctx context.Context, id string, req tenant.UpdateRequest) (*tenant.Tenant, error)
	UpdateTenantConnection(ctx context.Context, id, databaseName, connString string) (*tenant.Tenant, error)
	SoftDeleteTenant(ctx context.Context, id string) error
	RestoreTenant(ctx context.Context, id string) (*tenant.Tenant, error)

	// Operator API keys
	CreateOperatorKey(ctx context.Context, name, secretHash string) (*operator.Key, error)
	GetOperatorKeyByName(ctx context.Context, name string) (*operator.Key, error)
	TouchOperatorKey(ctx context.Context, id string) error
	ListOperatorKeys(ctx context.Context) ([]operator.Key, error)
}
