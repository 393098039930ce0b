//go:build !integration

// File: internal/infra/db/postgres/mock_test.go
package postgres

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"farm-course-payments/internal/domain/model"
)

// mockRedisClient satisfies red.RedisClient for decorator tests.
type mockRedisClient struct {
	GetFunc func(ctx context.Context, key string) (string, error)
	SetFunc func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc func(ctx context.Context, keys ...string) error
}

func (m *mockRedisClient) Ping(context.Context) error { return nil }

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc == nil {
		return "", redis.Nil
	}
	return m.GetFunc(ctx, key)
}

func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, key, value, expiration)
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc == nil {
		return nil
	}
	return m.DelFunc(ctx, keys...)
}

func (m *mockRedisClient) Close() error { return nil }

// mockInnerRateRepo mocks the database repository the rate decorator wraps.
type mockInnerRateRepo struct {
	GetFunc func(ctx context.Context, currency string) (*model.ExchangeRate, error)
	SetFunc func(ctx context.Context, currency string, rate float64) (*model.ExchangeRate, error)
}

func (m *mockInnerRateRepo) Get(ctx context.Context, currency string) (*model.ExchangeRate, error) {
	return m.GetFunc(ctx, currency)
}

func (m *mockInnerRateRepo) Set(ctx context.Context, currency string, rate float64) (*model.ExchangeRate, error) {
	return m.SetFunc(ctx, currency, rate)
}
