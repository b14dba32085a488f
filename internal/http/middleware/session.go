package middleware

import (
	"net/http"
	"strings"

	"github.com/wolfman30/smart-hospital/internal/auth"
	"github.com/wolfman30/smart-hospital/internal/http/respond"
	"github.com/wolfman30/smart-hospital/internal/staff"
)

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Session requires a valid bearer session token and stores its claims in the
// request context.
func Session(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				respond.Error(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			claims, err := verifier.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole lets the request through only when the session role is one of
// roles. It must run after Session.
func RequireRole(roles ...staff.Role) func(http.Handler) http.Handler {
	allowed := make(map[staff.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				respond.Error(w, http.StatusUnauthorized, "not logged in")
				return
			}
			if _, ok := allowed[claims.Role]; !ok {
				respond.Error(w, http.StatusForbidden, "access denied for role "+string(claims.Role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
