package tenant

import (
	"context"

	"github.com/Strob0t/SiteForge/internal/domain"
)

// Session is the request-scoped tenant binding. It carries the resolved
// tenant identity and its live connection string for the duration of one
// inbound request and is never persisted. Because it lives in the request
// context, it dies with the request even when the handler panics, so tenant
// state cannot leak across requests.
type Session struct {
	TenantID         string
	Identifier       string
	ConnectionString string
}

// sessionCtxKey is a private type to prevent collisions with other context keys.
type sessionCtxKey struct{}

// NewContext returns a context carrying the given tenant session.
// Called once per request, immediately after resolution succeeds.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

// FromContext returns the tenant session bound to ctx.
// Returns domain.ErrTenantContext when no tenant has been bound.
func FromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(sessionCtxKey{}).(Session)
	if !ok {
		return Session{}, domain.ErrTenantContext
	}
	return s, nil
}
