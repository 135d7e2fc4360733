// Package lock serializes report writes for one rep across server instances
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	appreport "github.com/Mandoobi/jaber-backend/internal/application/report"
	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	keyPrefix     = "jaber:lock:rep"
	retryInterval = 100 * time.Millisecond
	releaseTimeout = 2 * time.Second
)

type obtainer interface {
	Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (*redislock.Lock, error)
}

// RedisRepLocker implements appreport.RepLocker with a Redis lease per
// (tenant, rep). The lease expires after ttl if the holder dies. Waiting is
// bounded by maxWait; when it runs out the caller gets ErrRepBusy.
type RedisRepLocker struct {
	client  obtainer
	ttl     time.Duration
	maxWait time.Duration
	logger  *zap.Logger
}

// NewRedisRepLocker creates a locker on client
func NewRedisRepLocker(client *redislock.Client, ttl, maxWait time.Duration, logger *zap.Logger) *RedisRepLocker {
	return &RedisRepLocker{client: client, ttl: ttl, maxWait: maxWait, logger: logger.Named("rep_lock")}
}

// Key returns the Redis key guarding a rep
func Key(tenantID, repID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, tenantID, repID)
}

// Lock implements appreport.RepLocker
func (l *RedisRepLocker) Lock(ctx context.Context, tenantID, repID uuid.UUID) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	key := Key(tenantID, repID)
	lease, err := l.client.Obtain(waitCtx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(retryInterval),
	})
	switch {
	case err == nil:
	case errors.Is(err, redislock.ErrNotObtained), errors.Is(err, context.DeadlineExceeded):
		return nil, appreport.ErrRepBusy
	default:
		return nil, fmt.Errorf("failed to obtain rep lock: %w", err)
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		if err := lease.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("failed to release rep lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

var _ appreport.RepLocker = (*RedisRepLocker)(nil)
