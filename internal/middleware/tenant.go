package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/Strob0t/SiteForge/internal/domain"
	"github.com/Strob0t/SiteForge/internal/domain/tenant"
)

// SessionResolver maps a tenant identifier to a request session.
type SessionResolver interface {
	Resolve(ctx context.Context, identifier string) (tenant.Session, error)
}

// Tenant returns middleware that reads the tenant identifier from the
// configured header, resolves it, and binds the session to the request
// context. A missing header is a 400; an identifier that does not resolve
// to an active tenant is a 404, with no hint whether the tenant exists.
func Tenant(resolver SessionResolver, header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier := r.Header.Get(header)
			if identifier == "" {
				writeJSONError(w, http.StatusBadRequest, "tenant header required")
				return
			}

			session, err := resolver.Resolve(r.Context(), identifier)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				writeJSONError(w, http.StatusNotFound, "unknown tenant")
				return
			case errors.Is(err, domain.ErrValidation):
				writeJSONError(w, http.StatusBadRequest, "invalid tenant identifier")
				return
			case err != nil:
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(tenant.NewContext(r.Context(), session)))
		})
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
