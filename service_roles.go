package authzkit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// ROLE OPERATIONS
// ============================================================================

// CreateRole creates a role and returns its surrogate UUID.
// Fails with a name-exist error when the name is already taken; names are
// unique and case-sensitive.
func (s *Service) CreateRole(ctx context.Context, name, summary, description string) (string, error) {
	existing, err := s.getRoleByName(ctx, name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", NewError(ErrNameExist, "role name already taken").WithName(name)
	}

	now := time.Now().UTC()
	role := &Role{
		UUID:        uuid.NewString(),
		Name:        name,
		Summary:     summary,
		Description: description,
		Created:     now,
		Updated:     now,
	}
	result, err := s.db.NewInsert().Model(role).Exec(ctx)
	if err = dbkit.WithErr(result, err, "CreateRole").Err(); err != nil {
		// Lost a create race on the unique name index.
		if dbkit.IsDuplicate(err) {
			return "", NewError(ErrNameExist, "role name already taken").WithName(name)
		}
		return "", err
	}
	return role.UUID, nil
}

// GetRole returns the full role record for a surrogate UUID.
func (s *Service) GetRole(ctx context.Context, id string) (*Role, error) {
	role, err := s.getRoleByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, NewError(ErrNotFound, "role not found").WithID(id)
	}
	return role, nil
}

// RoleIDByName resolves a role name to its surrogate UUID.
func (s *Service) RoleIDByName(ctx context.Context, name string) (string, error) {
	role, err := s.getRoleByName(ctx, name)
	if err != nil {
		return "", err
	}
	if role == nil {
		return "", NewError(ErrNotFound, "role not found").WithName(name)
	}
	return role.UUID, nil
}

// UpdateRole applies the recognized fields of an update to a role. The
// updated timestamp advances only when at least one field was supplied; an
// empty update touches nothing, not even the timestamp.
func (s *Service) UpdateRole(ctx context.Context, id string, update EntityUpdate) error {
	role, err := s.getRoleByUUID(ctx, id)
	if err != nil {
		return err
	}
	if role == nil {
		return NewError(ErrNotFound, "role not found").WithID(id)
	}
	if !role.ApplyUpdate(update) {
		return nil
	}

	result, err := s.db.NewUpdate().Model(role).
		Column("summary", "description", "updated").
		WherePK().
		Exec(ctx)
	return dbkit.WithErr(result, err, "UpdateRole").Err()
}

// DeleteRole removes a role: every user grant and permission association is
// severed first, then the row itself, all in one transaction so a failure
// leaves nothing half-detached. Mirrored grants of the deleted role are
// cleaned up afterwards, best-effort.
func (s *Service) DeleteRole(ctx context.Context, id string) error {
	role, err := s.getRoleByUUID(ctx, id)
	if err != nil {
		return err
	}
	if role == nil {
		return NewError(ErrNotFound, "role not found").WithID(id)
	}

	// Snapshot the permission set before the cascade for mirror cleanup.
	perms, err := s.permissionsOfRole(ctx, role.ID)
	if err != nil {
		return err
	}

	err = s.runInTx(ctx, func(txs *Service) error {
		if _, err := txs.db.NewDelete().Model((*UserRole)(nil)).
			Where("role_id = ?", role.ID).Exec(ctx); err != nil {
			return dbkit.WithErr1(err, "DeleteRoleUserGrants").Err()
		}
		if _, err := txs.db.NewDelete().Model((*RolePermission)(nil)).
			Where("role_id = ?", role.ID).Exec(ctx); err != nil {
			return dbkit.WithErr1(err, "DeleteRolePermissionGrants").Err()
		}
		_, err := txs.db.NewDelete().Model((*Role)(nil)).
			Where("id = ?", role.ID).Exec(ctx)
		return dbkit.WithErr1(err, "DeleteRole").Err()
	})
	if err != nil {
		return NewError(ErrDatabaseError, "failed to delete role").WithID(id)
	}

	s.syncGrants(ctx, mirrorDelete, role.Name, perms)
	return nil
}

// ListRoles returns one page of roles plus listing metadata.
func (s *Service) ListRoles(ctx context.Context, q ListQuery) ([]Role, ListMeta, error) {
	q = q.normalize(s.cfg.PageSize)
	if err := q.validateSortBy(listSortColumns); err != nil {
		return nil, ListMeta{}, err
	}

	total, err := dbkit.Count[Role](ctx, s.db, func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq
	})
	if err != nil {
		return nil, ListMeta{}, err
	}

	offset, limit, err := q.window(total)
	if err != nil {
		return nil, ListMeta{}, err
	}

	var roles []Role
	err = dbkit.WithErr1(s.db.NewSelect().Model(&roles).
		Order(q.orderExpr()).
		Limit(limit).
		Offset(offset).
		Scan(ctx), "ListRoles").Err()
	if err != nil {
		return nil, ListMeta{}, err
	}
	return roles, q.meta(total), nil
}

// ============================================================================
// ROLE ↔ PERMISSION RELATIONSHIP
// ============================================================================

// RolePermissions returns the permissions granted through a role.
func (s *Service) RolePermissions(ctx context.Context, roleID string) ([]Permission, error) {
	role, err := s.getRoleByUUID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, NewError(ErrNotFound, "role not found").WithID(roleID)
	}
	return s.permissionsOfRole(ctx, role.ID)
}

// AppendRolePermissions grants the identified permissions to a role. If any
// id does not resolve the whole operation aborts with a have-not-exist
// error carrying the missing ids; nothing is mutated. Granting an
// already-present permission is a no-op. On success each grant is pushed to
// the mirror, best-effort.
func (s *Service) AppendRolePermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	role, err := s.getRoleByUUID(ctx, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return NewError(ErrNotFound, "role not found").WithID(roleID)
	}

	perms, missing, err := s.resolvePermissions(ctx, permissionIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return NewError(ErrHaveNotExist, "").WithMissing(missing)
	}
	if len(perms) == 0 {
		return nil
	}

	rows := make([]RolePermission, 0, len(perms))
	for _, p := range perms {
		rows = append(rows, RolePermission{RoleID: role.ID, PermissionID: p.ID})
	}
	err = s.runInTx(ctx, func(txs *Service) error {
		result, err := txs.db.NewInsert().Model(&rows).
			On("CONFLICT (role_id, permission_id) DO NOTHING").
			Exec(ctx)
		return dbkit.WithErr(result, err, "AppendRolePermissions").Err()
	})
	if err != nil {
		return NewError(ErrDatabaseError, "failed to append permissions").WithID(roleID)
	}

	s.syncGrants(ctx, mirrorPut, role.Name, perms)
	return nil
}

// RemoveRolePermissions revokes the identified permissions from a role.
// Resolution and abort policy match AppendRolePermissions; removing a
// permission the role does not hold is a no-op for that target. On success
// each grant's mirror key is deleted, best-effort.
func (s *Service) RemoveRolePermissions(ctx context.Context, roleID string, permissionIDs []string) error {
	role, err := s.getRoleByUUID(ctx, roleID)
	if err != nil {
		return err
	}
	if role == nil {
		return NewError(ErrNotFound, "role not found").WithID(roleID)
	}

	perms, missing, err := s.resolvePermissions(ctx, permissionIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return NewError(ErrHaveNotExist, "").WithMissing(missing)
	}
	if len(perms) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}
	err = s.runInTx(ctx, func(txs *Service) error {
		result, err := txs.db.NewDelete().Model((*RolePermission)(nil)).
			Where("role_id = ?", role.ID).
			Where("permission_id IN (?)", bun.In(ids)).
			Exec(ctx)
		return dbkit.WithErr(result, err, "RemoveRolePermissions").Err()
	})
	if err != nil {
		return NewError(ErrDatabaseError, "failed to remove permissions").WithID(roleID)
	}

	s.syncGrants(ctx, mirrorDelete, role.Name, perms)
	return nil
}
