package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher is the subset of *redis.Client the emitter needs
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// RedisEmitter publishes notifications as JSON on "<prefix>:<tenantID>"
type RedisEmitter struct {
	client Publisher
	prefix string
	logger *zap.Logger
}

// NewRedisEmitter creates an emitter on client
func NewRedisEmitter(client Publisher, prefix string, logger *zap.Logger) *RedisEmitter {
	return &RedisEmitter{client: client, prefix: prefix, logger: logger.Named("notification")}
}

// Channel returns the channel a tenant's notifications are published on
func (e *RedisEmitter) Channel(n *Notification) string {
	return fmt.Sprintf("%s:%s", e.prefix, n.TenantID)
}

// Emit implements Emitter
func (e *RedisEmitter) Emit(ctx context.Context, n *Notification) error {
	if len(n.TargetUserIDs) == 0 {
		return nil
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}
	channel := e.Channel(n)
	receivers, err := e.client.Publish(ctx, channel, payload).Result()
	if err != nil {
		return fmt.Errorf("failed to publish notification on %s: %w", channel, err)
	}
	e.logger.Debug("notification published",
		zap.String("channel", channel),
		zap.String("action_type", string(n.ActionType)),
		zap.Int("targets", len(n.TargetUserIDs)),
		zap.Int64("receivers", receivers),
	)
	return nil
}

// LogEmitter writes notifications to the log. Used when the Redis channel is
// disabled.
type LogEmitter struct {
	logger *zap.Logger
}

// NewLogEmitter creates a LogEmitter
func NewLogEmitter(logger *zap.Logger) *LogEmitter {
	return &LogEmitter{logger: logger.Named("notification")}
}

// Emit implements Emitter
func (e *LogEmitter) Emit(_ context.Context, n *Notification) error {
	e.logger.Info("notification",
		zap.String("tenant_id", n.TenantID.String()),
		zap.String("action_type", string(n.ActionType)),
		zap.String("level", string(n.Level)),
		zap.String("description", n.Description),
		zap.Int("targets", len(n.TargetUserIDs)),
	)
	return nil
}

var (
	_ Emitter = (*RedisEmitter)(nil)
	_ Emitter = (*LogEmitter)(nil)
)
