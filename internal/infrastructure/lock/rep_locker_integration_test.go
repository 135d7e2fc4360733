//go:build integration

package lock

import (
	"context"
	"testing"
	"time"

	appreport "github.com/Mandoobi/jaber-backend/internal/application/report"
	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisRepLocker_SerializesPerRep(t *testing.T) {
	client := setupRedis(t)
	locker := NewRedisRepLocker(redislock.New(client), 10*time.Second, 200*time.Millisecond, zap.NewNop())
	ctx := context.Background()
	tenant, rep := uuid.New(), uuid.New()

	unlock, err := locker.Lock(ctx, tenant, rep)
	require.NoError(t, err)

	_, err = locker.Lock(ctx, tenant, rep)
	assert.ErrorIs(t, err, appreport.ErrRepBusy)

	other, err := locker.Lock(ctx, tenant, uuid.New())
	require.NoError(t, err, "other reps are not blocked")
	other()

	unlock()
	again, err := locker.Lock(ctx, tenant, rep)
	require.NoError(t, err)
	again()
}
