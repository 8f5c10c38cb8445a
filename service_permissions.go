package authzkit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// PERMISSION OPERATIONS
// ============================================================================

// CreatePermission creates a permission and returns its surrogate UUID.
// Fails with a name-exist error when the name is already taken.
func (s *Service) CreatePermission(ctx context.Context, name, summary, description string) (string, error) {
	existing, err := s.getPermissionByName(ctx, name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", NewError(ErrNameExist, "permission name already taken").WithName(name)
	}

	now := time.Now().UTC()
	perm := &Permission{
		UUID:        uuid.NewString(),
		Name:        name,
		Summary:     summary,
		Description: description,
		Created:     now,
		Updated:     now,
	}
	result, err := s.db.NewInsert().Model(perm).Exec(ctx)
	if err = dbkit.WithErr(result, err, "CreatePermission").Err(); err != nil {
		if dbkit.IsDuplicate(err) {
			return "", NewError(ErrNameExist, "permission name already taken").WithName(name)
		}
		return "", err
	}
	return perm.UUID, nil
}

// GetPermission returns the full permission record for a surrogate UUID.
func (s *Service) GetPermission(ctx context.Context, id string) (*Permission, error) {
	perm, err := s.getPermissionByUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	if perm == nil {
		return nil, NewError(ErrNotFound, "permission not found").WithID(id)
	}
	return perm, nil
}

// PermissionIDByName resolves a permission name to its surrogate UUID.
func (s *Service) PermissionIDByName(ctx context.Context, name string) (string, error) {
	perm, err := s.getPermissionByName(ctx, name)
	if err != nil {
		return "", err
	}
	if perm == nil {
		return "", NewError(ErrNotFound, "permission not found").WithName(name)
	}
	return perm.UUID, nil
}

// UpdatePermission applies the recognized fields of an update to a
// permission, advancing the updated timestamp only when at least one field
// was supplied.
func (s *Service) UpdatePermission(ctx context.Context, id string, update EntityUpdate) error {
	perm, err := s.getPermissionByUUID(ctx, id)
	if err != nil {
		return err
	}
	if perm == nil {
		return NewError(ErrNotFound, "permission not found").WithID(id)
	}
	if !perm.ApplyUpdate(update) {
		return nil
	}

	result, err := s.db.NewUpdate().Model(perm).
		Column("summary", "description", "updated").
		WherePK().
		Exec(ctx)
	return dbkit.WithErr(result, err, "UpdatePermission").Err()
}

// DeletePermission removes a permission after severing every role
// association, all in one transaction. Mirror keys of the severed grants
// are cleaned up afterwards, best-effort.
func (s *Service) DeletePermission(ctx context.Context, id string) error {
	perm, err := s.getPermissionByUUID(ctx, id)
	if err != nil {
		return err
	}
	if perm == nil {
		return NewError(ErrNotFound, "permission not found").WithID(id)
	}

	// Snapshot the owning roles before the cascade for mirror cleanup.
	roles, err := s.rolesOfPermission(ctx, perm.ID)
	if err != nil {
		return err
	}

	err = s.runInTx(ctx, func(txs *Service) error {
		if _, err := txs.db.NewDelete().Model((*RolePermission)(nil)).
			Where("permission_id = ?", perm.ID).Exec(ctx); err != nil {
			return dbkit.WithErr1(err, "DeletePermissionGrants").Err()
		}
		_, err := txs.db.NewDelete().Model((*Permission)(nil)).
			Where("id = ?", perm.ID).Exec(ctx)
		return dbkit.WithErr1(err, "DeletePermission").Err()
	})
	if err != nil {
		return NewError(ErrDatabaseError, "failed to delete permission").WithID(id)
	}

	for _, role := range roles {
		s.syncGrants(ctx, mirrorDelete, role.Name, []Permission{*perm})
	}
	return nil
}

// ListPermissions returns one page of permissions plus listing metadata.
func (s *Service) ListPermissions(ctx context.Context, q ListQuery) ([]Permission, ListMeta, error) {
	q = q.normalize(s.cfg.PageSize)
	if err := q.validateSortBy(listSortColumns); err != nil {
		return nil, ListMeta{}, err
	}

	total, err := dbkit.Count[Permission](ctx, s.db, func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq
	})
	if err != nil {
		return nil, ListMeta{}, err
	}

	offset, limit, err := q.window(total)
	if err != nil {
		return nil, ListMeta{}, err
	}

	var perms []Permission
	err = dbkit.WithErr1(s.db.NewSelect().Model(&perms).
		Order(q.orderExpr()).
		Limit(limit).
		Offset(offset).
		Scan(ctx), "ListPermissions").Err()
	if err != nil {
		return nil, ListMeta{}, err
	}
	return perms, q.meta(total), nil
}
