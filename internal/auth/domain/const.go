// Package domain defines the API key roles that guard the HTTP surface. Admin keys manage
// pools; storefront keys claim codes and read availability.
package domain

// Role is the permission level granted by an API key.
type Role string

const (
	// RoleAdmin may issue codes, delete plans and read listings. It also passes every
	// storefront check.
	RoleAdmin Role = "admin"

	// RoleStorefront may claim codes and read availability.
	RoleStorefront Role = "storefront"
)

// Allows reports whether a caller with role r may use an endpoint that requires required.
func (r Role) Allows(required Role) bool {
	return r == RoleAdmin || r == required
}
