// policy/policy.go
//
// Central authorization decision procedure. Every handler funnels its role and
// branch checks through Authorize so the rules live in one place instead of
// being restated per endpoint. The engine is pure: it never touches the store,
// so the one rule that needs a count (last-admin protection) takes the count
// as an argument.
package policy

import (
	"fmt"

	"github.com/zahabshop/zahab_backend/models"
)

// Action is the operation being attempted on a resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionList   Action = "list"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionExport Action = "export"
)

// Kind identifies which collection a resource belongs to.
type Kind string

const (
	KindUser    Kind = "user"
	KindBranch  Kind = "branch"
	KindItem    Kind = "item"
	KindInvoice Kind = "invoice"
)

// Resource describes the target of a decision. For reads, updates and deletes
// BranchID and TargetRole come from the existing document; for creates and
// updates ProposedRole/ProposedBranchID carry the values being assigned.
// Empty proposed fields mean "unchanged".
type Resource struct {
	Kind             Kind
	BranchID         string
	TargetRole       models.Role
	ProposedRole     models.Role
	ProposedBranchID string
}

// Decision is the outcome of an authorization check. Reason is only set on
// denials and is safe to surface in the response body.
type Decision struct {
	Allowed bool
	Reason  string
}

func Allow() Decision { return Decision{Allowed: true} }

func Deny(reason string) Decision { return Decision{Reason: reason} }

// Authorize applies the role/branch policy table for an authenticated
// principal. Unauthenticated and unknown-role requests must be rejected by the
// token verifier before ever reaching this point.
func Authorize(p models.Principal, action Action, r Resource) Decision {
	switch r.Kind {
	case KindBranch:
		return authorizeBranch(p, action, r)
	case KindUser:
		return authorizeUser(p, action, r)
	case KindItem:
		return authorizeItem(p, action, r)
	case KindInvoice:
		return authorizeInvoice(p, action, r)
	}
	return Deny(fmt.Sprintf("unknown resource kind %q", r.Kind))
}

// Branches are admin territory, with one delegation: a manager may rename the
// branch they belong to.
func authorizeBranch(p models.Principal, action Action, r Resource) Decision {
	if p.IsAdmin() {
		return Allow()
	}
	if action == ActionUpdate && p.Role == models.RoleManager && p.SameBranch(r.BranchID) {
		return Allow()
	}
	return Deny("only admins can manage branches")
}

func authorizeUser(p models.Principal, action Action, r Resource) Decision {
	if p.Role == models.RoleSales {
		return Deny("sales cannot manage users")
	}
	if p.IsAdmin() {
		return Allow()
	}

	// Manager rules below.
	switch action {
	case ActionCreate:
		if r.ProposedRole != models.RoleSales {
			return Deny("managers can only create sales users")
		}
		if !p.SameBranch(r.ProposedBranchID) {
			return Deny("managers can only create users in their own branch")
		}
		return Allow()
	case ActionUpdate:
		if r.TargetRole != models.RoleSales {
			return Deny("managers can only update sales users")
		}
		if !p.SameBranch(r.BranchID) {
			return Deny("managers can only update users in their own branch")
		}
		if r.ProposedRole == models.RoleAdmin {
			return Deny("managers cannot grant the admin role")
		}
		if r.ProposedBranchID != "" && !p.SameBranch(r.ProposedBranchID) {
			return Deny("managers cannot move users to another branch")
		}
		return Allow()
	case ActionDelete:
		if !p.SameBranch(r.BranchID) {
			return Deny("managers can only delete users in their own branch")
		}
		if r.TargetRole == models.RoleAdmin {
			return Deny("managers cannot delete admin users")
		}
		return Allow()
	case ActionList, ActionRead:
		// Scoping to the manager's branch is applied as a store-side filter
		// by the handler, not by denying here.
		return Allow()
	}
	return Deny("operation not permitted")
}

func authorizeItem(p models.Principal, action Action, r Resource) Decision {
	if action == ActionCreate {
		// Admins run the books, not the stock room.
		if p.IsAdmin() {
			return Deny("admins cannot create items")
		}
		return Allow()
	}
	if p.IsAdmin() || action == ActionList {
		return Allow()
	}
	if !p.SameBranch(r.BranchID) {
		return Deny("item belongs to another branch")
	}
	return Allow()
}

func authorizeInvoice(p models.Principal, action Action, r Resource) Decision {
	switch action {
	case ActionCreate, ActionList:
		// Create is forced onto the principal's branch and list is
		// branch-filtered by the handler, so both are open to every role.
		return Allow()
	}
	if p.IsAdmin() {
		return Allow()
	}
	if !p.SameBranch(r.BranchID) {
		return Deny("invoice belongs to another branch")
	}
	return Allow()
}

// RemovesLastAdmin reports whether deleting (or demoting, when proposedRole is
// set and not admin) the target would leave the system with no active admin.
// Callers pass the current count of active admin users; the read-then-write
// race with a concurrent delete is accepted.
func RemovesLastAdmin(activeAdmins int64, targetRole, proposedRole models.Role) bool {
	if targetRole != models.RoleAdmin {
		return false
	}
	if proposedRole == models.RoleAdmin {
		return false
	}
	return activeAdmins <= 1
}
