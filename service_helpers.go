package authzkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
	"github.com/uptrace/bun"
)

// ============================================================================
// INTERNAL LOOKUPS
// ============================================================================

func (s *Service) getUserByUUID(ctx context.Context, id string) (*User, error) {
	var user User
	err := dbkit.WithErr1(s.db.NewSelect().Model(&user).Where("uuid = ?", id).Limit(1).Scan(ctx), "GetUserByUUID").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (s *Service) getRoleByUUID(ctx context.Context, id string) (*Role, error) {
	var role Role
	err := dbkit.WithErr1(s.db.NewSelect().Model(&role).Where("uuid = ?", id).Limit(1).Scan(ctx), "GetRoleByUUID").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (s *Service) getRoleByName(ctx context.Context, name string) (*Role, error) {
	var role Role
	err := dbkit.WithErr1(s.db.NewSelect().Model(&role).Where("name = ?", name).Limit(1).Scan(ctx), "GetRoleByName").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (s *Service) getPermissionByUUID(ctx context.Context, id string) (*Permission, error) {
	var perm Permission
	err := dbkit.WithErr1(s.db.NewSelect().Model(&perm).Where("uuid = ?", id).Limit(1).Scan(ctx), "GetPermissionByUUID").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &perm, nil
}

func (s *Service) getPermissionByName(ctx context.Context, name string) (*Permission, error) {
	var perm Permission
	err := dbkit.WithErr1(s.db.NewSelect().Model(&perm).Where("name = ?", name).Limit(1).Scan(ctx), "GetPermissionByName").Err()
	if err != nil {
		if dbkit.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &perm, nil
}

// ============================================================================
// RELATIONSHIP RESOLUTION
// ============================================================================

// resolveRoles resolves a list of role UUIDs against the store, partitioning
// into resolved entities and missing ids. Both slices preserve input order;
// the caller decides whether any missing id aborts the mutation.
func (s *Service) resolveRoles(ctx context.Context, ids []string) ([]Role, []string, error) {
	resolved := make([]Role, 0, len(ids))
	var missing []string
	for _, id := range ids {
		role, err := s.getRoleByUUID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if role == nil {
			missing = append(missing, id)
			continue
		}
		resolved = append(resolved, *role)
	}
	return resolved, missing, nil
}

// resolvePermissions is the permission-side counterpart of resolveRoles.
func (s *Service) resolvePermissions(ctx context.Context, ids []string) ([]Permission, []string, error) {
	resolved := make([]Permission, 0, len(ids))
	var missing []string
	for _, id := range ids {
		perm, err := s.getPermissionByUUID(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if perm == nil {
			missing = append(missing, id)
			continue
		}
		resolved = append(resolved, *perm)
	}
	return resolved, missing, nil
}

// ============================================================================
// MEMBERSHIP QUERIES
// ============================================================================

// rolesOfUser loads the roles granted to a user's internal id.
func (s *Service) rolesOfUser(ctx context.Context, userID int64) ([]Role, error) {
	var roles []Role
	err := dbkit.WithErr1(s.db.NewSelect().Model(&roles).
		Join("JOIN authz_user_roles AS ur ON ur.role_id = r.id").
		Where("ur.user_id = ?", userID).
		Order("r.id ASC").
		Scan(ctx), "RolesOfUser").Err()
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// permissionsOfRole loads the permissions granted to a role's internal id.
func (s *Service) permissionsOfRole(ctx context.Context, roleID int64) ([]Permission, error) {
	var perms []Permission
	err := dbkit.WithErr1(s.db.NewSelect().Model(&perms).
		Join("JOIN authz_role_permissions AS rp ON rp.permission_id = p.id").
		Where("rp.role_id = ?", roleID).
		Order("p.id ASC").
		Scan(ctx), "PermissionsOfRole").Err()
	if err != nil {
		return nil, err
	}
	return perms, nil
}

// rolesOfPermission loads the roles that grant a permission's internal id.
func (s *Service) rolesOfPermission(ctx context.Context, permissionID int64) ([]Role, error) {
	var roles []Role
	err := dbkit.WithErr1(s.db.NewSelect().Model(&roles).
		Join("JOIN authz_role_permissions AS rp ON rp.role_id = r.id").
		Where("rp.permission_id = ?", permissionID).
		Order("r.id ASC").
		Scan(ctx), "RolesOfPermission").Err()
	if err != nil {
		return nil, err
	}
	return roles, nil
}

// roleHasPermissionNamed reports whether any of the given role ids grants a
// permission with the exact name.
func (s *Service) roleHasPermissionNamed(ctx context.Context, roleIDs []int64, name string) (bool, error) {
	if len(roleIDs) == 0 {
		return false, nil
	}
	return dbkit.Exists[RolePermission](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Join("JOIN authz_permissions AS p ON p.id = rp.permission_id").
			Where("rp.role_id IN (?)", bun.In(roleIDs)).
			Where("p.name = ?", name)
	})
}
