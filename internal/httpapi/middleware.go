package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/wazoplugind/wazo-plugind/internal/ports"
	apperrors "github.com/wazoplugind/wazo-plugind/pkg/errors"
)

type claimsKey struct{}

// authMiddleware requires a bearer token on every route and verifies it
// against the configured ports.TokenVerifier, stashing the resulting claims
// in the request context for downstream handlers.
func authMiddleware(verifier ports.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, apperrors.NewUnauthorizedError("missing bearer token"))
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				writeError(w, apperrors.NewUnauthorizedError("invalid bearer token"))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}

func claimsFromContext(ctx context.Context) (ports.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(ports.Claims)
	return claims, ok
}

// requireMasterTenant wraps a handler that mutates state: while the
// identity service hasn't yet been contacted the verifier reports not
// ready (503 not-initialized); once ready, only master-tenant callers may
// proceed.
func requireMasterTenant(verifier ports.TokenVerifier, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !verifier.Ready() {
			writeError(w, apperrors.NewNotInitializedError())
			return
		}
		claims, ok := claimsFromContext(r.Context())
		if !ok || !claims.MasterTenant {
			writeError(w, apperrors.NewUnauthorizedError("caller is not the master tenant"))
			return
		}
		next(w, r)
	}
}
