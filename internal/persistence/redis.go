package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/org-services/internal/config"
	"github.com/spec-kit/org-services/internal/lock"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client  *redis.Client
	lockTTL time.Duration
}

// NewRedis connects to Redis using the provided configuration. An unreachable
// server is logged but not fatal; callers fall back when lock calls fail.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	}

	return &Redis{Client: client, lockTTL: cfg.LockTTL()}
}

// Locker returns a distributed per-key write lock backed by this client.
func (r *Redis) Locker(logger *zap.Logger) *lock.RedisLocker {
	return lock.NewRedisLocker(r.Client, r.lockTTL, logger)
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
