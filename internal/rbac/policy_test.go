package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/merenda-app/merenda/internal/shared"
)

func TestPermissionsForRoles(t *testing.T) {
	t.Run("admin holds every scope", func(t *testing.T) {
		perms := PermissionsForRoles([]Role{RoleAdmin})
		assert.ElementsMatch(t, shared.AllScopes(), perms)
	})

	t.Run("pcp can edit but not manage users or delete menu types", func(t *testing.T) {
		perms := PermissionsForRoles([]Role{RolePCP})
		assert.Contains(t, perms, shared.PermMenusEdit)
		assert.Contains(t, perms, shared.PermMasterdataEdit)
		assert.NotContains(t, perms, shared.PermUsersManage)
		assert.NotContains(t, perms, shared.PermMenuTypesDelete)
	})

	t.Run("plain user is read only", func(t *testing.T) {
		perms := PermissionsForRoles([]Role{RoleUser})
		assert.Contains(t, perms, shared.PermMenusView)
		assert.NotContains(t, perms, shared.PermMenusEdit)
	})

	t.Run("union deduplicates", func(t *testing.T) {
		perms := PermissionsForRoles([]Role{RoleUser, RolePCP, RoleUser})
		seen := make(map[string]int)
		for _, p := range perms {
			seen[p]++
		}
		for p, n := range seen {
			assert.Equal(t, 1, n, "permission %s duplicated", p)
		}
	})

	t.Run("no roles means no permissions", func(t *testing.T) {
		assert.Empty(t, PermissionsForRoles(nil))
	})
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RolePCP.IsValid())
	assert.True(t, RoleUser.IsValid())
	assert.False(t, Role("root").IsValid())
	assert.False(t, Role("").IsValid())
}
