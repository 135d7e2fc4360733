// Package cache owns the shared Redis connection. The notification channel
// and the per-rep reconciliation lock both run on it.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Mandoobi/jaber-backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// HealthCheck adapts a Redis client to the readiness probe
type HealthCheck struct {
	Client redis.UniversalClient
}

// PingContext implements handler.Pinger
func (h HealthCheck) PingContext(ctx context.Context) error {
	return h.Client.Ping(ctx).Err()
}
