package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"occupancy/errors"
	"occupancy/models"
)

// checkKV runs the behaviour every backend must share.
func checkKV(t *testing.T, kv KV, prefix string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	key := prefix + "-" + time.Now().Format("150405.000000")

	_, err := kv.Get(ctx, key)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	require.NoError(t, kv.Set(ctx, key, []byte(`{"v":1}`)))
	got, err := kv.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(got))

	require.NoError(t, kv.Set(ctx, key, []byte(`{"v":2}`)))
	got, err = kv.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(got), "Set overwrites")
}

func TestMemoryKV(t *testing.T) {
	checkKV(t, NewMemoryKV(), "memory")
}

func TestRedisKV(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	checkKV(t, NewRedisKV(rdb), "occupancy-test")
}

func TestGormKV(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.StateRecord{}))
	checkKV(t, NewGormKV(db), "occupancy-test")
}
