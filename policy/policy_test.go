package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zahabshop/zahab_backend/models"
)

var (
	admin    = models.Principal{UID: "admin-1", Role: models.RoleAdmin, BranchID: "hq"}
	manager  = models.Principal{UID: "mgr-1", Role: models.RoleManager, BranchID: "b1"}
	salesGuy = models.Principal{UID: "sales-1", Role: models.RoleSales, BranchID: "b1"}
)

func TestAuthorizeBranch(t *testing.T) {
	tests := []struct {
		name      string
		principal models.Principal
		action    Action
		resource  Resource
		allowed   bool
	}{
		{"admin creates branch", admin, ActionCreate, Resource{Kind: KindBranch}, true},
		{"admin deletes branch", admin, ActionDelete, Resource{Kind: KindBranch, BranchID: "b2"}, true},
		{"manager lists branches", manager, ActionList, Resource{Kind: KindBranch}, false},
		{"manager renames own branch", manager, ActionUpdate, Resource{Kind: KindBranch, BranchID: "b1"}, true},
		{"manager renames other branch", manager, ActionUpdate, Resource{Kind: KindBranch, BranchID: "b2"}, false},
		{"manager deletes own branch", manager, ActionDelete, Resource{Kind: KindBranch, BranchID: "b1"}, false},
		{"sales renames own branch", salesGuy, ActionUpdate, Resource{Kind: KindBranch, BranchID: "b1"}, false},
		{"sales creates branch", salesGuy, ActionCreate, Resource{Kind: KindBranch}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Authorize(tt.principal, tt.action, tt.resource)
			assert.Equal(t, tt.allowed, decision.Allowed)
			if !tt.allowed {
				assert.NotEmpty(t, decision.Reason)
			}
		})
	}
}

func TestAuthorizeUser(t *testing.T) {
	tests := []struct {
		name      string
		principal models.Principal
		action    Action
		resource  Resource
		allowed   bool
	}{
		{"admin creates manager anywhere", admin, ActionCreate,
			Resource{Kind: KindUser, ProposedRole: models.RoleManager, ProposedBranchID: "b2"}, true},
		{"admin deletes admin", admin, ActionDelete,
			Resource{Kind: KindUser, TargetRole: models.RoleAdmin}, true},
		{"manager creates sales in own branch", manager, ActionCreate,
			Resource{Kind: KindUser, ProposedRole: models.RoleSales, ProposedBranchID: "b1"}, true},
		{"manager creates sales in other branch", manager, ActionCreate,
			Resource{Kind: KindUser, ProposedRole: models.RoleSales, ProposedBranchID: "b2"}, false},
		{"manager creates manager", manager, ActionCreate,
			Resource{Kind: KindUser, ProposedRole: models.RoleManager, ProposedBranchID: "b1"}, false},
		{"manager creates admin", manager, ActionCreate,
			Resource{Kind: KindUser, ProposedRole: models.RoleAdmin, ProposedBranchID: "b1"}, false},
		{"manager updates sales in own branch", manager, ActionUpdate,
			Resource{Kind: KindUser, TargetRole: models.RoleSales, BranchID: "b1"}, true},
		{"manager updates sales in other branch", manager, ActionUpdate,
			Resource{Kind: KindUser, TargetRole: models.RoleSales, BranchID: "b2"}, false},
		{"manager updates a manager", manager, ActionUpdate,
			Resource{Kind: KindUser, TargetRole: models.RoleManager, BranchID: "b1"}, false},
		{"manager grants admin", manager, ActionUpdate,
			Resource{Kind: KindUser, TargetRole: models.RoleSales, BranchID: "b1", ProposedRole: models.RoleAdmin}, false},
		{"manager moves user to other branch", manager, ActionUpdate,
			Resource{Kind: KindUser, TargetRole: models.RoleSales, BranchID: "b1", ProposedBranchID: "b2"}, false},
		{"manager keeps user in own branch", manager, ActionUpdate,
			Resource{Kind: KindUser, TargetRole: models.RoleSales, BranchID: "b1", ProposedBranchID: "b1"}, true},
		{"manager deletes sales in own branch", manager, ActionDelete,
			Resource{Kind: KindUser, TargetRole: models.RoleSales, BranchID: "b1"}, true},
		{"manager deletes sales in other branch", manager, ActionDelete,
			Resource{Kind: KindUser, TargetRole: models.RoleSales, BranchID: "b2"}, false},
		{"manager deletes admin in own branch", manager, ActionDelete,
			Resource{Kind: KindUser, TargetRole: models.RoleAdmin, BranchID: "b1"}, false},
		{"manager lists users", manager, ActionList, Resource{Kind: KindUser}, true},
		{"sales lists users", salesGuy, ActionList, Resource{Kind: KindUser}, false},
		{"sales creates user", salesGuy, ActionCreate,
			Resource{Kind: KindUser, ProposedRole: models.RoleSales, ProposedBranchID: "b1"}, false},
		{"sales deletes user", salesGuy, ActionDelete,
			Resource{Kind: KindUser, TargetRole: models.RoleSales, BranchID: "b1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Authorize(tt.principal, tt.action, tt.resource)
			assert.Equal(t, tt.allowed, decision.Allowed)
		})
	}
}

func TestAuthorizeItem(t *testing.T) {
	tests := []struct {
		name      string
		principal models.Principal
		action    Action
		resource  Resource
		allowed   bool
	}{
		{"admin creates item", admin, ActionCreate, Resource{Kind: KindItem}, false},
		{"manager creates item", manager, ActionCreate, Resource{Kind: KindItem}, true},
		{"sales creates item", salesGuy, ActionCreate, Resource{Kind: KindItem}, true},
		{"admin reads any item", admin, ActionRead, Resource{Kind: KindItem, BranchID: "b2"}, true},
		{"admin updates any item", admin, ActionUpdate, Resource{Kind: KindItem, BranchID: "b2"}, true},
		{"manager reads own-branch item", manager, ActionRead, Resource{Kind: KindItem, BranchID: "b1"}, true},
		{"manager reads other-branch item", manager, ActionRead, Resource{Kind: KindItem, BranchID: "b2"}, false},
		{"sales updates own-branch item", salesGuy, ActionUpdate, Resource{Kind: KindItem, BranchID: "b1"}, true},
		{"sales deletes other-branch item", salesGuy, ActionDelete, Resource{Kind: KindItem, BranchID: "b2"}, false},
		{"sales lists items", salesGuy, ActionList, Resource{Kind: KindItem}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Authorize(tt.principal, tt.action, tt.resource)
			assert.Equal(t, tt.allowed, decision.Allowed)
		})
	}
}

func TestAuthorizeInvoice(t *testing.T) {
	tests := []struct {
		name      string
		principal models.Principal
		action    Action
		resource  Resource
		allowed   bool
	}{
		{"admin creates invoice", admin, ActionCreate, Resource{Kind: KindInvoice}, true},
		{"sales creates invoice", salesGuy, ActionCreate, Resource{Kind: KindInvoice}, true},
		{"sales lists invoices", salesGuy, ActionList, Resource{Kind: KindInvoice}, true},
		{"admin reads any invoice", admin, ActionRead, Resource{Kind: KindInvoice, BranchID: "b2"}, true},
		{"manager reads own-branch invoice", manager, ActionRead, Resource{Kind: KindInvoice, BranchID: "b1"}, true},
		{"manager reads other-branch invoice", manager, ActionRead, Resource{Kind: KindInvoice, BranchID: "b2"}, false},
		{"sales exports own-branch invoice", salesGuy, ActionExport, Resource{Kind: KindInvoice, BranchID: "b1"}, true},
		{"sales exports other-branch invoice", salesGuy, ActionExport, Resource{Kind: KindInvoice, BranchID: "b2"}, false},
		{"admin exports any invoice", admin, ActionExport, Resource{Kind: KindInvoice, BranchID: "b2"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Authorize(tt.principal, tt.action, tt.resource)
			assert.Equal(t, tt.allowed, decision.Allowed)
		})
	}
}

func TestAuthorizeUnknownKind(t *testing.T) {
	decision := Authorize(admin, ActionRead, Resource{Kind: Kind("gold-bar")})
	assert.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, "unknown resource kind")
}

func TestRemovesLastAdmin(t *testing.T) {
	tests := []struct {
		name         string
		activeAdmins int64
		targetRole   models.Role
		proposedRole models.Role
		removes      bool
	}{
		{"deleting the only admin", 1, models.RoleAdmin, "", true},
		{"deleting one of two admins", 2, models.RoleAdmin, "", false},
		{"demoting the only admin", 1, models.RoleAdmin, models.RoleManager, true},
		{"demoting one of two admins", 2, models.RoleAdmin, models.RoleSales, false},
		{"admin keeps admin role", 1, models.RoleAdmin, models.RoleAdmin, false},
		{"deleting a manager", 1, models.RoleManager, "", false},
		{"deleting a sales user", 1, models.RoleSales, "", false},
		{"zero admins left", 0, models.RoleAdmin, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.removes, RemovesLastAdmin(tt.activeAdmins, tt.targetRole, tt.proposedRole))
		})
	}
}
