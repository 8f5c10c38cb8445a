package authzkit

import (
	"github.com/fernandezvara/dbkit"
)

// Migrations returns all database migrations required for authzkit.
// Use dbkit.Migrate / db.Migrate(ctx, service.Migrations()) to run them.
func (s *Service) Migrations() []dbkit.Migration {
	return []dbkit.Migration{
		{
			ID:          "authzkit-001",
			Description: "Create authz_users table",
			SQL: `
                CREATE TABLE IF NOT EXISTS authz_users (
                    id BIGSERIAL PRIMARY KEY,
                    uuid UUID NOT NULL UNIQUE,
                    created TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "authzkit-002",
			Description: "Create authz_roles table",
			SQL: `
                CREATE TABLE IF NOT EXISTS authz_roles (
                    id BIGSERIAL PRIMARY KEY,
                    uuid UUID NOT NULL UNIQUE,
                    name TEXT NOT NULL UNIQUE,
                    summary TEXT NOT NULL DEFAULT '',
                    description TEXT NOT NULL DEFAULT '',
                    created TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "authzkit-003",
			Description: "Create authz_permissions table",
			SQL: `
                CREATE TABLE IF NOT EXISTS authz_permissions (
                    id BIGSERIAL PRIMARY KEY,
                    uuid UUID NOT NULL UNIQUE,
                    name TEXT NOT NULL UNIQUE,
                    summary TEXT NOT NULL DEFAULT '',
                    description TEXT NOT NULL DEFAULT '',
                    created TIMESTAMPTZ NOT NULL DEFAULT current_timestamp,
                    updated TIMESTAMPTZ NOT NULL DEFAULT current_timestamp
                )`,
		},
		{
			ID:          "authzkit-004",
			Description: "Create authz_user_roles join table",
			SQL: `
                CREATE TABLE IF NOT EXISTS authz_user_roles (
                    user_id BIGINT NOT NULL REFERENCES authz_users (id),
                    role_id BIGINT NOT NULL REFERENCES authz_roles (id),
                    PRIMARY KEY (user_id, role_id)
                )`,
		},
		{
			ID:          "authzkit-005",
			Description: "Create authz_role_permissions join table",
			SQL: `
                CREATE TABLE IF NOT EXISTS authz_role_permissions (
                    role_id BIGINT NOT NULL REFERENCES authz_roles (id),
                    permission_id BIGINT NOT NULL REFERENCES authz_permissions (id),
                    PRIMARY KEY (role_id, permission_id)
                )`,
		},
	}
}
