package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "jaber-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "jaber", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "Asia/Hebron", cfg.Reconciliation.Timezone)
		assert.Equal(t, 3, cfg.Reconciliation.MaxAttempts)
		assert.Equal(t, 100, cfg.Reconciliation.BatchSize)
		assert.Equal(t, 30*time.Second, cfg.Reconciliation.LockTTL)
		assert.Equal(t, 5*time.Second, cfg.Reconciliation.LockWait)
		assert.Zero(t, cfg.Reconciliation.SweepInterval)
		assert.Equal(t, 15*time.Minute, cfg.Reconciliation.SweepIdle)
		assert.Equal(t, "notifications", cfg.Notification.ChannelPrefix)

		loc, err := cfg.Reconciliation.Location()
		require.NoError(t, err)
		assert.Equal(t, "Asia/Hebron", loc.String())
	})

	t.Run("loads values from environment variables with JABER prefix", func(t *testing.T) {
		t.Setenv("JABER_APP_PORT", "9000")
		t.Setenv("JABER_DATABASE_HOST", "testdb.local")
		t.Setenv("JABER_DATABASE_PORT", "5433")
		t.Setenv("JABER_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("JABER_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("JABER_RECONCILIATION_MAX_ATTEMPTS", "5")
		t.Setenv("JABER_RECONCILIATION_TIMEZONE", "UTC")
		t.Setenv("JABER_RECONCILIATION_LOCK_ENABLED", "true")
		t.Setenv("JABER_STORAGE_ENABLED", "true")
		t.Setenv("JABER_STORAGE_BUCKET", "reports")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, 5, cfg.Reconciliation.MaxAttempts)
		assert.Equal(t, "UTC", cfg.Reconciliation.Timezone)
		assert.True(t, cfg.Reconciliation.LockEnabled)
		assert.Equal(t, "reports", cfg.Storage.Bucket)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("JABER_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("JABER_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		t.Setenv("JABER_RECONCILIATION_TIMEZONE", "Mars/Olympus")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reconciliation.timezone")
	})

	t.Run("storage needs a bucket", func(t *testing.T) {
		t.Setenv("JABER_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})
}

func TestProductionValidation(t *testing.T) {
	load := func(t *testing.T, toml string) error {
		t.Helper()
		v := viper.New()
		v.SetConfigType("toml")
		require.NoError(t, v.ReadConfig(strings.NewReader(toml)))
		_, err := fromViper(v)
		return err
	}

	t.Run("requires a long JWT secret", func(t *testing.T) {
		err := load(t, `
[app]
env = "production"
[jwt]
secret = "short"
`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("refuses plaintext database connections", func(t *testing.T) {
		err := load(t, `
[app]
env = "production"
[jwt]
secret = "0123456789abcdef0123456789abcdef"
[database]
password = "pw"
sslmode = "disable"
`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")
	})

	t.Run("accepts a complete production config", func(t *testing.T) {
		err := load(t, `
[app]
env = "production"
[jwt]
secret = "0123456789abcdef0123456789abcdef"
[database]
password = "pw"
sslmode = "require"
`)
		assert.NoError(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "jaber", Password: "pass@word#1", DBName: "jaber", SSLMode: "disable"}
	dsn := d.DSN()
	assert.Contains(t, dsn, "pass%40word%231")
	assert.Contains(t, dsn, "@db:5432/jaber")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.Addr())
}
