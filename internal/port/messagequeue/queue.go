// Package messagequeue defines the message queue port (interface).
package messagequeue

import "context"

// Handler processes one message from a subscription.
type Handler func(subject string, data []byte) error

// Queue is the port interface for publishing and consuming tenant
// lifecycle events.
type Queue interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Subscribe(ctx context.Context, subject string, handler Handler) (func(), error)
	Close() error
}

// Subjects for tenant lifecycle events.
const (
	// SubjectTenantOnboarded is published after a tenant is activated.
	SubjectTenantOnboarded = "tenants.onboarded"

	// SubjectTenantInvalidated is published when a tenant record changes;
	// every instance drops its cached snapshot for the identifier carried
	// in the payload.
	SubjectTenantInvalidated = "tenants.invalidated"
)

// TenantEvent is the payload for tenant lifecycle subjects.
type TenantEvent struct {
	TenantID   string `json:"tenant_id"`
	Identifier string `json:"identifier"`
}
