package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"admin", "manager", "sales"} {
		role, err := ParseRole(raw)
		require.NoError(t, err)
		assert.Equal(t, Role(raw), role)
	}

	for _, raw := range []string{"", "Admin", "ADMIN", "owner", "superuser"} {
		_, err := ParseRole(raw)
		assert.Error(t, err, "role %q should be rejected", raw)
	}
}

func TestPrincipalHelpers(t *testing.T) {
	admin := Principal{UID: "u1", Role: RoleAdmin, BranchID: "hq"}
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.SameBranch("hq"))
	assert.False(t, admin.SameBranch("b1"))

	sales := Principal{UID: "u2", Role: RoleSales, BranchID: "b1"}
	assert.False(t, sales.IsAdmin())
	assert.True(t, sales.SameBranch("b1"))
}
