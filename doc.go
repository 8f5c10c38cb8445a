// Package authzkit is a centralized RBAC authority: it stores users, roles
// and permissions, maintains the many-to-many relations between them, and
// answers "does user U hold permission P" for other services.
//
// # Core Concepts
//
// User: identified by an externally assigned UUID. Users are created by the
// authentication service; authzkit records them lazily on their first role
// grant (or explicitly via GetOrCreateUser).
//
// Role: a uniquely named set of permissions. A role whose name equals the
// configured admin role name is a super-role: any user holding it passes
// every permission check.
//
// Permission: a uniquely named capability. Addressable both by name and by
// its surrogate UUID; both resolve to the same entity.
//
// # Key Features
//
//   - Union semantics: a user's effective permissions are the union over all
//     of their roles
//   - Admin sentinel short-circuit: the configured super-role grants
//     everything without scanning permissions
//   - All-or-nothing relationship mutations: appending or removing targets
//     aborts with the full missing-id list if any target does not resolve
//   - Set-like membership: re-appending an existing target is a no-op
//   - Validated, paginated listing with a sort-key allow-list
//   - Best-effort mirroring of role/permission grants to an external
//     key-value store; mirror failures never fail the primary operation
//   - DBKit integration: uses your existing database connection
//
// # Basic Usage
//
//	// 1. Build the configuration (at application startup)
//	cfg := authzkit.DefaultConfig()          // or authzkit.ConfigFromEnv()
//
//	// 2. Create the service
//	db, _ := dbkit.New(dbkit.Config{URL: "postgres://..."})
//	service := authzkit.NewService(cfg, db)
//
//	// 3. Run migrations
//	db.Migrate(ctx, service.Migrations())
//
//	// 4. Define roles and permissions
//	roleID, _ := service.CreateRole(ctx, "editor", "content editors", "")
//	permID, _ := service.CreatePermission(ctx, "article:write", "", "")
//	service.AppendRolePermissions(ctx, roleID, []string{permID})
//
//	// 5. Grant and check
//	service.AppendUserRoles(ctx, userID, []string{roleID})
//	ok, err := service.HasPermission(ctx, userID, "article:write")
//
// # Mirroring
//
// Role/permission grants can be propagated to an external key-value store
// for cross-service consumption:
//
//	mirror := authzkit.NewRedisMirror(redisClient, "authz")
//	service := authzkit.NewService(cfg, db, authzkit.WithMirror(mirror))
//
// Each grant is keyed by a stable, order-independent hash of the role and
// permission names. Mirror writes happen after the primary commit and are
// best-effort: failures are logged and the mutation still succeeds.
package authzkit
