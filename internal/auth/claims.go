// Package auth checks staff credentials and issues signed session tokens.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wolfman30/smart-hospital/internal/staff"
)

// Claims identify the logged-in staff member.
type Claims struct {
	PID   int        `json:"pid"`
	Role  staff.Role `json:"role"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	jwt.RegisteredClaims
}

type contextKey string

const claimsKey contextKey = "sessionClaims"

// WithClaims returns a context carrying c.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns the session claims if present.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}
