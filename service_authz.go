package authzkit

import (
	"context"
)

// ============================================================================
// PERMISSION RESOLUTION
// ============================================================================

// HasPermission reports whether a user holds a permission addressed by
// name. The user reference is checked first: when both references are
// invalid the result is invalid-user, never invalid-permission. Pure read,
// no side effects.
func (s *Service) HasPermission(ctx context.Context, userID, permissionName string) (bool, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return false, err
	}
	perm, err := s.getPermissionByName(ctx, permissionName)
	if err != nil {
		return false, err
	}
	if perm == nil {
		return false, NewError(ErrInvalidPermission, "permission not found").WithName(permissionName)
	}
	return s.userHoldsPermission(ctx, user, perm.Name)
}

// HasPermissionID reports whether a user holds a permission addressed by
// surrogate UUID. Check order matches HasPermission.
func (s *Service) HasPermissionID(ctx context.Context, userID, permissionID string) (bool, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return false, err
	}
	perm, err := s.getPermissionByUUID(ctx, permissionID)
	if err != nil {
		return false, err
	}
	if perm == nil {
		return false, NewError(ErrInvalidPermission, "permission not found").WithID(permissionID)
	}
	return s.userHoldsPermission(ctx, user, perm.Name)
}

// requireUser resolves a user reference or fails with invalid-user.
func (s *Service) requireUser(ctx context.Context, userID string) (*User, error) {
	user, err := s.getUserByUUID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NewError(ErrInvalidUser, "user not found").WithID(userID)
	}
	return user, nil
}

// userHoldsPermission walks the user's roles: the admin super-role grants
// everything without a permission scan, otherwise the permission must be
// granted through at least one role by exact name.
func (s *Service) userHoldsPermission(ctx context.Context, user *User, permissionName string) (bool, error) {
	roles, err := s.rolesOfUser(ctx, user.ID)
	if err != nil {
		return false, err
	}

	roleIDs := make([]int64, 0, len(roles))
	for _, r := range roles {
		if r.Name == s.cfg.AdminRoleName {
			return true, nil
		}
		roleIDs = append(roleIDs, r.ID)
	}
	return s.roleHasPermissionNamed(ctx, roleIDs, permissionName)
}

// ============================================================================
// CHECKER SNAPSHOTS
// ============================================================================

// GetChecker loads a snapshot of a user's roles and permissions for
// repeated in-process checks, e.g. one snapshot per request.
func (s *Service) GetChecker(ctx context.Context, userID string) (*Checker, error) {
	user, err := s.requireUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	roles, err := s.rolesOfUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	permsBy := make(map[int64][]Permission, len(roles))
	for _, r := range roles {
		perms, err := s.permissionsOfRole(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		permsBy[r.ID] = perms
	}
	return newChecker(userID, s.cfg.AdminRoleName, roles, permsBy), nil
}

// GetCheckerFromContext loads a Checker for the user ID stored in context.
func (s *Service) GetCheckerFromContext(ctx context.Context) (*Checker, error) {
	userID := GetUserID(ctx)
	if userID == "" {
		return nil, ErrNoUserID
	}
	return s.GetChecker(ctx, userID)
}
