package token

import (
	"context"
	"net/http"
	"strings"

	"vigil/pkg/platform/httputil"
	dErrors "vigil/pkg/domain-errors"
)

type contextKey string

const claimsKey contextKey = "operator_claims"

// ClaimsFromContext returns the operator claims attached by RequireOperator.
func ClaimsFromContext(ctx context.Context) (*OperatorClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*OperatorClaims)
	return claims, ok
}

// RequireOperator authenticates requests with a bearer operator token and
// rejects tokens lacking the required role.
func RequireOperator(svc *Service, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			raw, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := svc.Validate(raw)
			if err != nil {
				httputil.WriteError(w, err)
				return
			}
			if role != "" && !claims.HasRole(role) {
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "insufficient role"))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
