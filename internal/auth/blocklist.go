// Package auth holds the token revocation blocklist.  A jti lands here on
// logout and whenever a refresh token is exchanged; every token
// verification consults the set before trusting claims.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces blocklist entries in redis.
const keyPrefix = "blocklist:"

// Blocklist records revoked token identifiers until their natural expiry.
// Entries are written to redis with a TTL equal to the token's remaining
// lifetime, so the set never outgrows the tokens it blocks.  When redis is
// unavailable (nil client or a failing call) the blocklist degrades to an
// in-process set guarded by a mutex, which keeps revocation working on a
// single instance.  Expired fallback entries are pruned lazily on access.
type Blocklist struct {
	rdb *redis.Client

	mu  sync.Mutex
	mem map[string]time.Time // jti -> token expiry
}

// NewBlocklist builds a blocklist on top of the given redis client.  The
// client may be nil; the in-process fallback then carries all entries.
func NewBlocklist(rdb *redis.Client) *Blocklist {
	return &Blocklist{rdb: rdb, mem: make(map[string]time.Time)}
}

// Revoke adds a token identifier to the set.  The exp argument is the
// token's own expiry; an already expired token needs no entry at all.
func (b *Blocklist) Revoke(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	if b.rdb != nil {
		if err := b.rdb.Set(ctx, keyPrefix+jti, "1", ttl).Err(); err == nil {
			return nil
		}
		// fall through to the in-process set on redis failure
	}
	b.mu.Lock()
	b.mem[jti] = exp
	b.mu.Unlock()
	return nil
}

// IsRevoked reports whether a token identifier has been revoked.  Auth
// fails closed elsewhere, but the blocklist itself answers "not revoked"
// when redis errors: refusing every request because the blocklist store is
// briefly down would take the whole API offline with it.
func (b *Blocklist) IsRevoked(ctx context.Context, jti string) bool {
	if b.rdb != nil {
		n, err := b.rdb.Exists(ctx, keyPrefix+jti).Result()
		if err == nil && n > 0 {
			return true
		}
	}
	now := time.Now().UTC()
	b.mu.Lock()
	defer b.mu.Unlock()
	exp, ok := b.mem[jti]
	if !ok {
		return false
	}
	if now.After(exp) {
		delete(b.mem, jti) // the token it blocked is dead anyway
		return false
	}
	return true
}
