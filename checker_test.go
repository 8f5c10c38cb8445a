package authzkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testChecker(adminRole string) *Checker {
	roles := []Role{
		{ID: 1, Name: "editor"},
		{ID: 2, Name: "reviewer"},
	}
	permsBy := map[int64][]Permission{
		1: {{ID: 10, Name: "article:write"}, {ID: 11, Name: "article:read"}},
		2: {{ID: 11, Name: "article:read"}, {ID: 12, Name: "article:approve"}},
	}
	return newChecker("user-1", adminRole, roles, permsBy)
}

func TestCheckerHasPermission(t *testing.T) {
	c := testChecker("admin")

	assert.True(t, c.HasPermission("article:write"))
	assert.True(t, c.HasPermission("article:approve"))
	assert.False(t, c.HasPermission("article:delete"))
	assert.False(t, c.HasPermission("ARTICLE:WRITE"), "matching is case-sensitive")
}

func TestCheckerAdminShortCircuit(t *testing.T) {
	roles := []Role{{ID: 1, Name: "admin"}}
	c := newChecker("user-1", "admin", roles, map[int64][]Permission{})

	assert.True(t, c.IsAdmin())
	assert.True(t, c.HasPermission("anything:at:all"))
	assert.True(t, c.HasAllPermissions("a", "b", "c"))
}

func TestCheckerAdminNameIsConfigurable(t *testing.T) {
	roles := []Role{{ID: 1, Name: "admin"}}
	c := newChecker("user-1", "root", roles, map[int64][]Permission{})

	// "admin" is just a regular role here; the sentinel is "root".
	assert.False(t, c.IsAdmin())
	assert.False(t, c.HasPermission("anything"))
}

func TestCheckerHasRole(t *testing.T) {
	c := testChecker("admin")

	assert.True(t, c.HasRole("editor"))
	assert.True(t, c.HasRole("reviewer"))
	assert.False(t, c.HasRole("admin"))
	assert.False(t, c.HasRole("Editor"))
}

func TestCheckerAnyAndAll(t *testing.T) {
	c := testChecker("admin")

	assert.True(t, c.HasAnyPermission("article:delete", "article:read"))
	assert.False(t, c.HasAnyPermission("article:delete", "article:purge"))
	assert.True(t, c.HasAllPermissions("article:read", "article:write"))
	assert.False(t, c.HasAllPermissions("article:read", "article:delete"))
	assert.True(t, c.HasAllPermissions(), "vacuous truth over no names")
	assert.False(t, c.HasAnyPermission())
}

func TestCheckerPermissionsUnion(t *testing.T) {
	c := testChecker("admin")

	union := c.Permissions()
	names := make([]string, 0, len(union))
	for _, p := range union {
		names = append(names, p.Name)
	}

	// article:read is granted through both roles but appears once, at its
	// first-seen position.
	assert.Equal(t, []string{"article:write", "article:read", "article:approve"}, names)
}

func TestCheckerEmptyUser(t *testing.T) {
	c := newChecker("user-2", "admin", nil, nil)

	assert.True(t, c.IsEmpty())
	assert.False(t, c.IsAdmin())
	assert.False(t, c.HasPermission("article:read"))
	assert.Empty(t, c.Permissions())
	assert.Equal(t, "user-2", c.UserID())
}

func TestCheckerRolePermissions(t *testing.T) {
	c := testChecker("admin")

	perms := c.RolePermissions(2)
	assert.Len(t, perms, 2)
	assert.Equal(t, "article:read", perms[0].Name)

	assert.Empty(t, c.RolePermissions(99))
}
