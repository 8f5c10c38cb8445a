package authzkit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/fernandezvara/dbkit"
)

// ============================================================================
// USER OPERATIONS
// ============================================================================

// GetOrCreateUser returns the user record for an externally assigned UUID,
// inserting it first if absent. The insert is a single atomic
// check-then-insert, so concurrent first-touch of the same user cannot
// produce duplicate rows.
func (s *Service) GetOrCreateUser(ctx context.Context, userID string) (*User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, NewError(ErrInvalidUser, "malformed user id").WithID(userID)
	}

	user := &User{UUID: userID, Created: time.Now().UTC()}
	result, err := s.db.NewInsert().Model(user).
		On("CONFLICT (uuid) DO NOTHING").
		Exec(ctx)
	if err = dbkit.WithErr(result, err, "CreateUser").Err(); err != nil {
		return nil, err
	}

	// Reread: on conflict the insert returns no row.
	existing, err := s.getUserByUUID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, NewError(ErrDatabaseError, "user vanished after upsert").WithID(userID)
	}
	return existing, nil
}

// UserRoles returns the roles granted to a user.
func (s *Service) UserRoles(ctx context.Context, userID string) ([]Role, error) {
	user, err := s.getUserByUUID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NewError(ErrNotFound, "user not found").WithID(userID)
	}
	return s.rolesOfUser(ctx, user.ID)
}

// ============================================================================
// USER ↔ ROLE RELATIONSHIP
// ============================================================================

// AppendUserRoles grants the identified roles to a user. If any role id
// does not resolve the whole operation aborts with a have-not-exist error
// carrying the missing ids; nothing is mutated, and the user is not created
// either. The user record itself is created on first grant. Granting an
// already-held role is a no-op.
func (s *Service) AppendUserRoles(ctx context.Context, userID string, roleIDs []string) error {
	roles, missing, err := s.resolveRoles(ctx, roleIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return NewError(ErrHaveNotExist, "").WithMissing(missing)
	}
	if len(roles) == 0 {
		return nil
	}

	user, err := s.GetOrCreateUser(ctx, userID)
	if err != nil {
		return err
	}

	rows := make([]UserRole, 0, len(roles))
	for _, r := range roles {
		rows = append(rows, UserRole{UserID: user.ID, RoleID: r.ID})
	}
	err = s.runInTx(ctx, func(txs *Service) error {
		result, err := txs.db.NewInsert().Model(&rows).
			On("CONFLICT (user_id, role_id) DO NOTHING").
			Exec(ctx)
		return dbkit.WithErr(result, err, "AppendUserRoles").Err()
	})
	if err != nil {
		return NewError(ErrDatabaseError, "failed to append roles").WithID(userID)
	}
	return nil
}

// RemoveUserRoles revokes the identified roles from a user. Resolution and
// abort policy match AppendUserRoles; revoking a role the user does not
// hold is a no-op for that target.
func (s *Service) RemoveUserRoles(ctx context.Context, userID string, roleIDs []string) error {
	user, err := s.getUserByUUID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return NewError(ErrNotFound, "user not found").WithID(userID)
	}

	roles, missing, err := s.resolveRoles(ctx, roleIDs)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return NewError(ErrHaveNotExist, "").WithMissing(missing)
	}
	if len(roles) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(roles))
	for _, r := range roles {
		ids = append(ids, r.ID)
	}
	err = s.runInTx(ctx, func(txs *Service) error {
		result, err := txs.db.NewDelete().Model((*UserRole)(nil)).
			Where("user_id = ?", user.ID).
			Where("role_id IN (?)", bun.In(ids)).
			Exec(ctx)
		return dbkit.WithErr(result, err, "RemoveUserRoles").Err()
	})
	if err != nil {
		return NewError(ErrDatabaseError, "failed to remove roles").WithID(userID)
	}
	return nil
}

// CountUserRoles returns the number of roles a user holds. More efficient
// than UserRoles when only the count is needed.
func (s *Service) CountUserRoles(ctx context.Context, userID string) (int, error) {
	user, err := s.getUserByUUID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, NewError(ErrNotFound, "user not found").WithID(userID)
	}
	return dbkit.Count[UserRole](ctx, s.db, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("user_id = ?", user.ID)
	})
}
