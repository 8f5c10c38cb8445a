package authzkit

import (
	"time"

	"github.com/uptrace/bun"
)

// User is recorded by the authentication service and mirrored here only so
// that role grants have something to hang off. The UUID is the externally
// assigned identity; the integer primary key is what join rows reference
// and never leaves the library.
type User struct {
	bun.BaseModel `bun:"table:authz_users,alias:u"`

	ID      int64     `bun:"id,pk,autoincrement"`
	UUID    string    `bun:"uuid,notnull,unique,type:uuid"`
	Created time.Time `bun:"created,notnull,default:current_timestamp"`
}

// Role binds a set of permissions; a user can hold multiple roles.
// The name is unique and matched case-sensitively. A role whose name equals
// Config.AdminRoleName satisfies every permission check for its holders.
type Role struct {
	bun.BaseModel `bun:"table:authz_roles,alias:r"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UUID        string    `bun:"uuid,notnull,unique,type:uuid"`
	Name        string    `bun:"name,notnull,unique"`
	Summary     string    `bun:"summary"`
	Description string    `bun:"description"`
	Created     time.Time `bun:"created,notnull,default:current_timestamp"`
	Updated     time.Time `bun:"updated,notnull,default:current_timestamp"`
}

// Permission is a named capability. Externally addressable by UUID or by
// unique name; both resolve to the same row.
type Permission struct {
	bun.BaseModel `bun:"table:authz_permissions,alias:p"`

	ID          int64     `bun:"id,pk,autoincrement"`
	UUID        string    `bun:"uuid,notnull,unique,type:uuid"`
	Name        string    `bun:"name,notnull,unique"`
	Summary     string    `bun:"summary"`
	Description string    `bun:"description"`
	Created     time.Time `bun:"created,notnull,default:current_timestamp"`
	Updated     time.Time `bun:"updated,notnull,default:current_timestamp"`
}

// UserRole is one membership row of the User↔Role relation. The composite
// primary key makes the relation a set: re-inserting an existing pair is
// a conflict, which append operations downgrade to a no-op.
type UserRole struct {
	bun.BaseModel `bun:"table:authz_user_roles,alias:ur"`

	UserID int64 `bun:"user_id,pk"`
	RoleID int64 `bun:"role_id,pk"`
}

// RolePermission is one membership row of the Role↔Permission relation.
type RolePermission struct {
	bun.BaseModel `bun:"table:authz_role_permissions,alias:rp"`

	RoleID       int64 `bun:"role_id,pk"`
	PermissionID int64 `bun:"permission_id,pk"`
}

// EntityUpdate carries the updatable fields of a role or permission.
// Nil pointers mean "not supplied"; unrecognized input never reaches this
// struct, so applying it touches summary/description only.
type EntityUpdate struct {
	Summary     *string
	Description *string
}

// IsZero reports whether no recognized field was supplied.
func (u EntityUpdate) IsZero() bool {
	return u.Summary == nil && u.Description == nil
}

// apply copies the supplied fields onto the destination pointers and
// reports whether anything was applied. The updated timestamp must advance
// iff this returns true.
func (u EntityUpdate) apply(summary, description *string) bool {
	applied := false
	if u.Summary != nil {
		*summary = *u.Summary
		applied = true
	}
	if u.Description != nil {
		*description = *u.Description
		applied = true
	}
	return applied
}

// ApplyUpdate applies an EntityUpdate to the role, bumping Updated only
// when a recognized field was supplied.
func (r *Role) ApplyUpdate(u EntityUpdate) bool {
	if !u.apply(&r.Summary, &r.Description) {
		return false
	}
	r.Updated = time.Now().UTC()
	return true
}

// ApplyUpdate applies an EntityUpdate to the permission, bumping Updated
// only when a recognized field was supplied.
func (p *Permission) ApplyUpdate(u EntityUpdate) bool {
	if !u.apply(&p.Summary, &p.Description) {
		return false
	}
	p.Updated = time.Now().UTC()
	return true
}

// SimpleView is the abbreviated record shape used in listings.
type SimpleView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

// FullView is the complete record shape returned by single-entity reads.
type FullView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
	Created     string `json:"created"`
	Updated     string `json:"updated"`
}

// Simple returns the role's abbreviated view.
func (r *Role) Simple() SimpleView {
	return SimpleView{ID: r.UUID, Name: r.Name, Summary: r.Summary}
}

// Full returns the role's complete view with RFC3339 timestamps.
func (r *Role) Full() FullView {
	return FullView{
		ID:          r.UUID,
		Name:        r.Name,
		Summary:     r.Summary,
		Description: r.Description,
		Created:     r.Created.UTC().Format(time.RFC3339),
		Updated:     r.Updated.UTC().Format(time.RFC3339),
	}
}

// Simple returns the permission's abbreviated view.
func (p *Permission) Simple() SimpleView {
	return SimpleView{ID: p.UUID, Name: p.Name, Summary: p.Summary}
}

// Full returns the permission's complete view with RFC3339 timestamps.
func (p *Permission) Full() FullView {
	return FullView{
		ID:          p.UUID,
		Name:        p.Name,
		Summary:     p.Summary,
		Description: p.Description,
		Created:     p.Created.UTC().Format(time.RFC3339),
		Updated:     p.Updated.UTC().Format(time.RFC3339),
	}
}

// RoleGrant pairs a role with one of its permissions, as published to the
// mirror after relationship mutations.
type RoleGrant struct {
	RoleName       string
	PermissionName string
}
