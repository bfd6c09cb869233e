package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "github.com/mgayathri3/SecureSignIn/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyUser = "user:"

// UserCache caches account lookups by id in Redis, so GET /api/user does not
// hit Postgres on every request. The password hash is stripped before the
// record leaves the process; a cached entry can never leak it.
type UserCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewUserCache returns a new UserCache.
func NewUserCache(rdb *redis.Client, ttl time.Duration) *UserCache {
	return &UserCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached user or ok=false on miss. A cache hit has an empty
// PasswordHash, so credential checks must always go to the repo.
func (c *UserCache) Get(ctx context.Context, id int64) (dom.User, bool, error) {
	b, err := c.rdb.Get(ctx, keyUser+strconv.FormatInt(id, 10)).Bytes()
	if err == redis.Nil {
		return dom.User{}, false, nil
	}
	if err != nil {
		return dom.User{}, false, err
	}
	var u dom.User
	if err := json.Unmarshal(b, &u); err != nil {
		return dom.User{}, false, err
	}
	return u, true, nil
}

// Set stores the user, without its password hash.
func (c *UserCache) Set(ctx context.Context, u dom.User) error {
	u.PasswordHash = ""
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyUser+strconv.FormatInt(u.ID, 10), b, c.ttl).Err()
}

// Invalidate removes the cached entry for id (called after any mutation).
func (c *UserCache) Invalidate(ctx context.Context, id int64) error {
	return c.rdb.Del(ctx, keyUser+strconv.FormatInt(id, 10)).Err()
}
