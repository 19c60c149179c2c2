package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/linegroup/authcore/internal/infrastructure/ratelimit"
)

func TestLoginLimiter_Allow(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	defer client.Close()

	limiter := ratelimit.NewLoginLimiter(client, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(ctx, "10.0.0.5"))
	}
	assert.False(t, limiter.Allow(ctx, "10.0.0.5"))

	// Other clients keep their own budget.
	assert.True(t, limiter.Allow(ctx, "10.0.0.6"))

	// The window resets.
	s.FastForward(2 * time.Minute)
	assert.True(t, limiter.Allow(ctx, "10.0.0.5"))
}

func TestLoginLimiter_DisabledAndFailOpen(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	defer client.Close()
	ctx := context.Background()

	disabled := ratelimit.NewLoginLimiter(client, 0, time.Minute)
	for i := 0; i < 100; i++ {
		assert.True(t, disabled.Allow(ctx, "10.0.0.5"))
	}

	limited := ratelimit.NewLoginLimiter(client, 1, time.Minute)
	s.Close()
	// Store down: the limiter steps aside rather than locking everyone out.
	assert.True(t, limited.Allow(ctx, "10.0.0.5"))
}
