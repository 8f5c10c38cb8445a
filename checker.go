package authzkit

// Checker answers permission questions for one user from a snapshot of the
// user's roles and their permissions, loaded once by Service.GetChecker.
// It is typically stored in context by middleware so handlers can check
// repeatedly without further round-trips.
type Checker struct {
	userID    string
	adminRole string
	roles     []Role
	permsBy   map[int64][]Permission // role internal id -> permissions
}

// newChecker builds a Checker over a loaded snapshot.
func newChecker(userID, adminRole string, roles []Role, permsBy map[int64][]Permission) *Checker {
	return &Checker{
		userID:    userID,
		adminRole: adminRole,
		roles:     roles,
		permsBy:   permsBy,
	}
}

// UserID returns the user ID this checker is for.
func (c *Checker) UserID() string {
	return c.userID
}

// IsAdmin reports whether the user holds the configured admin super-role.
func (c *Checker) IsAdmin() bool {
	for _, r := range c.roles {
		if r.Name == c.adminRole {
			return true
		}
	}
	return false
}

// HasRole checks if the user holds a role by exact name.
func (c *Checker) HasRole(name string) bool {
	for _, r := range c.roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// HasPermission checks if the user holds a permission by exact name. The
// admin super-role short-circuits before any permission scan.
//
// Example:
//
//	if checker.HasPermission("article:write") {
//	    // user may write articles
//	}
func (c *Checker) HasPermission(name string) bool {
	for _, r := range c.roles {
		if r.Name == c.adminRole {
			return true
		}
	}
	for _, r := range c.roles {
		for _, p := range c.permsBy[r.ID] {
			if p.Name == name {
				return true
			}
		}
	}
	return false
}

// HasAnyPermission checks if the user holds at least one of the named
// permissions.
func (c *Checker) HasAnyPermission(names ...string) bool {
	for _, name := range names {
		if c.HasPermission(name) {
			return true
		}
	}
	return false
}

// HasAllPermissions checks if the user holds every one of the named
// permissions.
func (c *Checker) HasAllPermissions(names ...string) bool {
	for _, name := range names {
		if !c.HasPermission(name) {
			return false
		}
	}
	return true
}

// Roles returns the user's roles in load order.
func (c *Checker) Roles() []Role {
	return c.roles
}

// RolePermissions returns the permissions granted through a specific role.
func (c *Checker) RolePermissions(roleID int64) []Permission {
	return c.permsBy[roleID]
}

// Permissions returns the union of permissions over all roles, deduplicated
// by name, in first-seen order.
func (c *Checker) Permissions() []Permission {
	seen := make(map[string]bool)
	var union []Permission
	for _, r := range c.roles {
		for _, p := range c.permsBy[r.ID] {
			if seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			union = append(union, p)
		}
	}
	return union
}

// IsEmpty returns true if the user holds no roles.
func (c *Checker) IsEmpty() bool {
	return len(c.roles) == 0
}
