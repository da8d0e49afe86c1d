package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"primepass/internal/config"
)

// New creates a Redis client from config.
func New(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 3 * time.Second,
	})
}

// Connect creates a client and checks it answers a ping.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := New(cfg)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}
