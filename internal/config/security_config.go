package config

import "vkolc-backend/internal/domain"

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Any valid role token
	SecurityAdmin                       // Admin role token
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Auth
	"auth.login": SecurityPublic,
	"auth.me":    SecurityAccess,

	// Inventory
	"inventory.list":       SecurityAccess,
	"inventory.models":     SecurityAccess,
	"inventory.get":        SecurityAccess,
	"inventory.price":      SecurityAdmin,
	"inventory.movements":  SecurityAdmin,
	"templates.list":       SecurityAccess,
	"templates.apply":      SecurityAccess,
	"pricing.redistribute": SecurityAccess,

	// Contracts
	"contracts.list":     SecurityAccess,
	"contracts.create":   SecurityAccess,
	"contracts.get":      SecurityAccess,
	"contracts.revise":   SecurityAccess,
	"contracts.finalize": SecurityAccess,
	"contracts.extend":   SecurityAccess,
	"contracts.end":      SecurityAdmin,

	// Back office
	"transactions.list":   SecurityAdmin,
	"transactions.export": SecurityAdmin,
	"dashboard.get":       SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAdmin
}

// Allows reports whether a token with the given role may call a route at level.
func (l SecurityLevel) Allows(role domain.Role) bool {
	switch l {
	case SecurityPublic:
		return true
	case SecurityAccess:
		return role.Valid()
	case SecurityAdmin:
		return role == domain.RoleAdmin
	}
	return false
}
