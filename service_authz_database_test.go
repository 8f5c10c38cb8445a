package authzkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasPermission(t *testing.T) {
	h := NewTestDataHelper(t)
	s, ctx := h.GetService(), h.GetContext()

	userID := h.NewUserID()
	h.SeedGrant(userID, "editor", "article:write")

	t.Run("granted permission", func(t *testing.T) {
		h.AssertHasPermission(userID, "article:write")
	})

	t.Run("ungranted permission", func(t *testing.T) {
		h.SeedPermission("article:delete")
		h.AssertLacksPermission(userID, "article:delete")
	})

	t.Run("unknown permission name", func(t *testing.T) {
		_, err := s.HasPermission(ctx, userID, "no:such")
		assert.ErrorIs(t, err, ErrInvalidPermission)
		assert.Equal(t, "invalid-permission", ErrorCode(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.HasPermission(ctx, h.NewUserID(), "article:write")
		assert.ErrorIs(t, err, ErrInvalidUser)
	})

	t.Run("user check comes before permission check", func(t *testing.T) {
		// Both references are invalid; the user error wins.
		_, err := s.HasPermission(ctx, h.NewUserID(), "no:such")
		assert.ErrorIs(t, err, ErrInvalidUser)
		assert.Equal(t, "invalid-user", ErrorCode(err))
	})

	t.Run("matching is case sensitive", func(t *testing.T) {
		_, err := s.HasPermission(ctx, userID, "Article:Write")
		assert.ErrorIs(t, err, ErrInvalidPermission)
	})
}

func TestHasPermissionID(t *testing.T) {
	h := NewTestDataHelper(t)
	s, ctx := h.GetService(), h.GetContext()

	userID := h.NewUserID()
	h.SeedGrant(userID, "editor", "article:write")
	writeID, err := s.PermissionIDByName(ctx, "article:write")
	require.NoError(t, err)

	ok, err := s.HasPermissionID(ctx, userID, writeID)
	require.NoError(t, err)
	assert.True(t, ok)

	deleteID := h.SeedPermission("article:delete")
	ok, err = s.HasPermissionID(ctx, userID, deleteID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.HasPermissionID(ctx, h.NewUserID(), writeID)
	assert.ErrorIs(t, err, ErrInvalidUser)
}

func TestAdminShortCircuit(t *testing.T) {
	h := NewTestDataHelper(t)
	s, ctx := h.GetService(), h.GetContext()

	adminUser := h.NewUserID()
	h.SeedGrant(adminUser, "admin")

	// The permission must exist but needs no grant to anyone.
	h.SeedPermission("system:shutdown")

	t.Run("admin passes any existing permission", func(t *testing.T) {
		h.AssertHasPermission(adminUser, "system:shutdown")
	})

	t.Run("admin still fails unknown permission names", func(t *testing.T) {
		_, err := s.HasPermission(ctx, adminUser, "no:such")
		assert.ErrorIs(t, err, ErrInvalidPermission)
	})
}

func TestGetChecker(t *testing.T) {
	h := NewTestDataHelper(t)
	s, ctx := h.GetService(), h.GetContext()

	userID := h.NewUserID()
	h.SeedGrant(userID, "editor", "article:write", "article:read")

	t.Run("snapshot answers without further queries", func(t *testing.T) {
		checker, err := s.GetChecker(ctx, userID)
		require.NoError(t, err)

		assert.Equal(t, userID, checker.UserID())
		assert.True(t, checker.HasRole("editor"))
		assert.True(t, checker.HasPermission("article:write"))
		assert.False(t, checker.HasPermission("article:delete"))
		assert.False(t, checker.IsAdmin())
		assert.Len(t, checker.Permissions(), 2)
	})

	t.Run("snapshot is point-in-time", func(t *testing.T) {
		checker, err := s.GetChecker(ctx, userID)
		require.NoError(t, err)

		roleID, err := s.RoleIDByName(ctx, "editor")
		require.NoError(t, err)
		require.NoError(t, s.RemoveUserRoles(ctx, userID, []string{roleID}))

		// Live resolution sees the revoke; the snapshot does not.
		h.AssertLacksPermission(userID, "article:write")
		assert.True(t, checker.HasPermission("article:write"))

		// Restore for later subtests.
		require.NoError(t, s.AppendUserRoles(ctx, userID, []string{roleID}))
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.GetChecker(ctx, h.NewUserID())
		assert.ErrorIs(t, err, ErrInvalidUser)
	})
}

func TestGetCheckerFromContext(t *testing.T) {
	h := NewTestDataHelper(t)
	s, ctx := h.GetService(), h.GetContext()

	userID := h.NewUserID()
	h.SeedGrant(userID, "editor", "article:write")

	t.Run("user id from context", func(t *testing.T) {
		checker, err := s.GetCheckerFromContext(WithUserID(ctx, userID))
		require.NoError(t, err)
		assert.True(t, checker.HasPermission("article:write"))
	})

	t.Run("no user id in context", func(t *testing.T) {
		_, err := s.GetCheckerFromContext(ctx)
		assert.ErrorIs(t, err, ErrNoUserID)
	})
}
