package authzkit

import (
	"context"

	"github.com/fernandezvara/dbkit"
)

// Database defines the database operations interface for dependency injection
type Database interface {
	dbkit.IDB
}

// Authorizer defines the permission resolution interface consumed by
// transport layers and middleware.
type Authorizer interface {
	HasPermission(ctx context.Context, userID, permissionName string) (bool, error)
	HasPermissionID(ctx context.Context, userID, permissionID string) (bool, error)
	GetChecker(ctx context.Context, userID string) (*Checker, error)
}

// RoleManager defines role lifecycle and role↔permission relationship
// management.
type RoleManager interface {
	CreateRole(ctx context.Context, name, summary, description string) (string, error)
	GetRole(ctx context.Context, id string) (*Role, error)
	RoleIDByName(ctx context.Context, name string) (string, error)
	UpdateRole(ctx context.Context, id string, update EntityUpdate) error
	DeleteRole(ctx context.Context, id string) error
	ListRoles(ctx context.Context, q ListQuery) ([]Role, ListMeta, error)
	RolePermissions(ctx context.Context, roleID string) ([]Permission, error)
	AppendRolePermissions(ctx context.Context, roleID string, permissionIDs []string) error
	RemoveRolePermissions(ctx context.Context, roleID string, permissionIDs []string) error
}

// PermissionManager defines permission lifecycle management.
type PermissionManager interface {
	CreatePermission(ctx context.Context, name, summary, description string) (string, error)
	GetPermission(ctx context.Context, id string) (*Permission, error)
	PermissionIDByName(ctx context.Context, name string) (string, error)
	UpdatePermission(ctx context.Context, id string, update EntityUpdate) error
	DeletePermission(ctx context.Context, id string) error
	ListPermissions(ctx context.Context, q ListQuery) ([]Permission, ListMeta, error)
}

// UserManager defines user lifecycle and user↔role relationship management.
type UserManager interface {
	GetOrCreateUser(ctx context.Context, userID string) (*User, error)
	UserRoles(ctx context.Context, userID string) ([]Role, error)
	AppendUserRoles(ctx context.Context, userID string, roleIDs []string) error
	RemoveUserRoles(ctx context.Context, userID string, roleIDs []string) error
}

// HealthMonitor defines the health monitoring interface
type HealthMonitor interface {
	Health(ctx context.Context) dbkit.HealthStatus
	IsHealthy(ctx context.Context) bool
	Ping(ctx context.Context) error
	GetPoolStats() dbkit.PoolStats
}

// TransactionMonitor defines the transaction monitoring interface
type TransactionMonitor interface {
	GetTransactionMetrics() TransactionMetrics
	ResetTransactionMetrics()
	IsTransactionHealthy() bool
}
