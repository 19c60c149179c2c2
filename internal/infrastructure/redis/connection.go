// Package redis provides the Redis adapters of the authentication core: the
// shared revocation list and the refresh credential store, plus connection
// management for both.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/linegroup/authcore/internal/config"
	"github.com/linegroup/authcore/pkg/logger"
)

// NewClient builds a pooled Redis client and verifies connectivity with a
// bounded ping, so a misconfigured store is caught at startup rather than on
// the first request.
func NewClient(cfg *config.RedisConfig, log logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Info(ctx, "connected to redis", logger.String("addr", cfg.Addr))
	return client, nil
}
