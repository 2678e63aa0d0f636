// models/principal.go
package models

import "fmt"

// Role is the privilege level carried in the identity provider's custom claims.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleSales   Role = "sales"
)

// ParseRole maps a raw claim value to a known role. Tokens carrying anything
// else are rejected at the verifier, not the policy engine.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RoleManager, RoleSales:
		return Role(raw), nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// Principal is the authenticated identity attached to a request after token
// verification. It is rebuilt from verified claims on every request and never
// persisted on its own.
type Principal struct {
	UID       string `json:"uid"`
	Role      Role   `json:"role"`
	BranchID  string `json:"branchId"`
	FirstName string `json:"firstName,omitempty"`
}

// IsAdmin reports whether the principal is exempt from branch scoping.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// SameBranch reports whether the given branch id matches the principal's.
func (p Principal) SameBranch(branchID string) bool { return p.BranchID == branchID }
