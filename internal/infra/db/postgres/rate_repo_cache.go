// File: internal/infra/db/postgres/rate_repo_cache.go
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"farm-course-payments/internal/domain/model"
	"farm-course-payments/internal/domain/ports/repository"
	"farm-course-payments/internal/infra/metrics"
	red "farm-course-payments/internal/infra/redis"
)

var _ repository.ExchangeRateRepository = (*rateRepoCacheDecorator)(nil)

// rateRepoCacheDecorator keeps the hot exchange rate in Redis. Rates change
// rarely and every non-USD checkout reads one, so this sits in front of the
// table.
type rateRepoCacheDecorator struct {
	inner repository.ExchangeRateRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewRateRepoCacheDecorator(inner repository.ExchangeRateRepository, cache red.RedisClient, ttl time.Duration) repository.ExchangeRateRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &rateRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func rateKey(currency string) string { return fmt.Sprintf("rate:%s", currency) }

func (d *rateRepoCacheDecorator) Get(ctx context.Context, currency string) (*model.ExchangeRate, error) {
	key := rateKey(currency)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var rate model.ExchangeRate
		if json.Unmarshal([]byte(val), &rate) == nil {
			metrics.IncCacheRequest("rate", "hit")
			return &rate, nil
		}
	}

	metrics.IncCacheRequest("rate", "miss")
	rate, err := d.inner.Get(ctx, currency)
	if err != nil {
		return nil, err
	}
	if bytes, err := json.Marshal(rate); err == nil {
		d.cache.Set(ctx, key, bytes, d.ttl)
	}
	return rate, nil
}

func (d *rateRepoCacheDecorator) Set(ctx context.Context, currency string, value float64) (*model.ExchangeRate, error) {
	rate, err := d.inner.Set(ctx, currency, value)
	if err != nil {
		return nil, err
	}
	// Invalidate after the write so a racing read cannot re-cache the old
	// rate for a full TTL.
	d.cache.Del(ctx, rateKey(currency))
	return rate, nil
}
