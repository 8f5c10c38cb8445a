package authzkit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/redis/go-redis/v9"
)

// Mirror is the external key-value sink that role/permission grants are
// propagated to for cross-service consumption. Implementations should make
// exactly one attempt per call; the service never retries and never lets a
// mirror failure surface to the caller.
type Mirror interface {
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// GrantKey derives the mirror key for a role/permission grant. Each name is
// hashed independently and the digests are combined with XOR, so the key is
// stable across calls and independent of argument order.
func GrantKey(roleName, permissionName string) string {
	rh := sha256.Sum256([]byte(roleName))
	ph := sha256.Sum256([]byte(permissionName))
	var combined [sha256.Size]byte
	for i := range combined {
		combined[i] = rh[i] ^ ph[i]
	}
	return hex.EncodeToString(combined[:])
}

// MirrorResult records the outcome of one mirror attempt. Failures are
// carried as values rather than raised, so the primary mutation's result is
// never coupled to mirror reachability.
type MirrorResult struct {
	Key   string
	Grant RoleGrant
	Err   error
}

// Failed reports whether this mirror attempt failed.
func (r MirrorResult) Failed() bool {
	return r.Err != nil
}

// RedisMirror propagates grants to a redis instance.
type RedisMirror struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisMirror creates a Mirror backed by the given redis client. The
// prefix namespaces all keys; empty means no namespace.
func NewRedisMirror(client redis.UniversalClient, prefix string) *RedisMirror {
	return &RedisMirror{client: client, prefix: prefix}
}

func (m *RedisMirror) key(k string) string {
	if m.prefix == "" {
		return k
	}
	return m.prefix + ":" + k
}

// Put stores a grant under its derived key. One attempt, no retry.
func (m *RedisMirror) Put(ctx context.Context, key, value string) error {
	return m.client.Set(ctx, m.key(key), value, 0).Err()
}

// Delete removes a grant key. Deleting an absent key is not an error.
func (m *RedisMirror) Delete(ctx context.Context, key string) error {
	return m.client.Del(ctx, m.key(key)).Err()
}

type mirrorOp int

const (
	mirrorPut mirrorOp = iota
	mirrorDelete
)

func (op mirrorOp) String() string {
	if op == mirrorDelete {
		return "delete"
	}
	return "put"
}

// syncGrants propagates the grants of one role mutation to the mirror,
// one independent attempt per permission. Failures are logged and carried
// in the returned results; the caller's mutation has already committed and
// its outcome is not affected.
func (s *Service) syncGrants(ctx context.Context, op mirrorOp, roleName string, perms []Permission) []MirrorResult {
	if s.mirror == nil || !s.cfg.MirrorEnabled {
		return nil
	}
	results := make([]MirrorResult, 0, len(perms))
	for _, p := range perms {
		grant := RoleGrant{RoleName: roleName, PermissionName: p.Name}
		key := GrantKey(roleName, p.Name)

		var err error
		switch op {
		case mirrorPut:
			err = s.mirror.Put(ctx, key, roleName+"/"+p.Name)
		case mirrorDelete:
			err = s.mirror.Delete(ctx, key)
		}
		if err != nil {
			s.log.Warn("mirror sync failed",
				"op", op.String(),
				"role", roleName,
				"permission", p.Name,
				"error", err)
		}
		results = append(results, MirrorResult{Key: key, Grant: grant, Err: err})
	}
	return results
}
