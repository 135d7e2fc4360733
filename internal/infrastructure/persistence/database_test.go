package persistence

import (
	"context"
	"testing"

	"github.com/Mandoobi/jaber-backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *Database {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return &Database{DB: db}
}

func TestDatabase_AutoMigrate(t *testing.T) {
	d := openSQLite(t)
	defer d.Close()

	require.NoError(t, d.AutoMigrate())

	for _, m := range AllModels() {
		assert.True(t, d.DB.Migrator().HasTable(m), "missing table for %T", m)
	}

	t.Run("is idempotent", func(t *testing.T) {
		assert.NoError(t, d.AutoMigrate())
	})
}

func TestDatabase_PingAndClose(t *testing.T) {
	d := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, d.Ping(ctx))
	require.NoError(t, d.Close())

	assert.Error(t, d.Ping(ctx))
}

func TestDatabase_PingHonoursContext(t *testing.T) {
	d := openSQLite(t)
	defer d.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, d.Ping(ctx))
}

func TestNewDatabase_Unreachable(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Host:         "127.0.0.1",
		Port:         1,
		User:         "jaber",
		Password:     "jaber",
		DBName:       "jaber",
		SSLMode:      "disable",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}

	d, err := NewDatabase(cfg)
	assert.Error(t, err)
	assert.Nil(t, d)
}
