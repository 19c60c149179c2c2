// Package ratelimit throttles the credential-guessing surface. Only the
// login and refresh endpoints are limited; verified traffic is not.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter is a fixed-window counter per client address, shared across
// replicas through Redis.
type LoginLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

// NewLoginLimiter builds the limiter. A non-positive limit disables it.
func NewLoginLimiter(rdb *redis.Client, limit int64, window time.Duration) *LoginLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &LoginLimiter{
		rdb:    rdb,
		prefix: "auth:ratelimit:login:",
		limit:  limit,
		window: window,
	}
}

// Allow reports whether the client may attempt another login. The limiter
// fails open: if the store cannot answer, the attempt is allowed and the
// password check remains the only gate.
func (l *LoginLimiter) Allow(ctx context.Context, clientIP string) bool {
	if l.limit <= 0 || clientIP == "" {
		return true
	}

	key := l.prefix + clientIP
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		l.rdb.Expire(ctx, key, l.window)
	}
	return count <= l.limit
}
