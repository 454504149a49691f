package store

import (
	"context"
	stderrors "errors"

	"github.com/redis/go-redis/v9"

	"occupancy/errors"
)

// RedisKV stores each record as a plain Redis string without expiry.
type RedisKV struct {
	rdb *redis.Client
}

func NewRedisKV(rdb *redis.Client) *RedisKV {
	return &RedisKV{rdb: rdb}
}

// Hàm lấy data từ Redis
func (k *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := k.rdb.Get(ctx, key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Hàm lưu dữ liệu vào Redis
func (k *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	return k.rdb.Set(ctx, key, value, 0).Err()
}
