// Package http provides gin middleware for API key authentication and claim rate limiting.
package http

import (
	"context"

	authDomain "github.com/allisson/codepool/internal/auth/domain"
)

// roleKey is a context key type for storing the authenticated role.
type roleKey struct{}

// WithRole stores the authenticated role in the context.
func WithRole(ctx context.Context, role authDomain.Role) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

// GetRole retrieves the authenticated role from the context.
func GetRole(ctx context.Context) (authDomain.Role, bool) {
	role, ok := ctx.Value(roleKey{}).(authDomain.Role)
	return role, ok
}
