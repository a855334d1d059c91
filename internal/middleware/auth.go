package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Strob0t/SiteForge/internal/domain/operator"
	"github.com/Strob0t/SiteForge/internal/service"
)

type operatorCtxKey struct{}

// KeyVerifier checks a presented operator API key token.
type KeyVerifier interface {
	Verify(ctx context.Context, token string) (*operator.Key, error)
}

// OperatorAuth returns middleware that guards the tenant administration
// surface with operator API keys. The key is taken from the Authorization
// header as a Bearer token, or from X-API-Key.
func OperatorAuth(verifier KeyVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "authorization required")
				return
			}

			key, err := verifier.Verify(r.Context(), token)
			if errors.Is(err, service.ErrInvalidAPIKey) {
				writeJSONError(w, http.StatusUnauthorized, "invalid API key")
				return
			}
			if err != nil {
				writeJSONError(w, http.StatusInternalServerError, "internal server error")
				return
			}

			ctx := context.WithValue(r.Context(), operatorCtxKey{}, key)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OperatorFromContext returns the operator key bound by OperatorAuth.
func OperatorFromContext(ctx context.Context) (*operator.Key, bool) {
	key, ok := ctx.Value(operatorCtxKey{}).(*operator.Key)
	return key, ok
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get("X-API-Key"))
}
