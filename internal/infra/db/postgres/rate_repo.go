// File: internal/infra/db/postgres/rate_repo.go
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"farm-course-payments/internal/domain"
	"farm-course-payments/internal/domain/model"
	"farm-course-payments/internal/domain/ports/repository"
)

var _ repository.ExchangeRateRepository = (*rateRepo)(nil)

type rateRepo struct {
	pool        *pgxpool.Pool
	defaultRate float64
}

// NewRateRepo stores exchange rates. defaultRate seeds a currency the first
// time it is read, so the table needs no manual bootstrap.
func NewRateRepo(pool *pgxpool.Pool, defaultRate float64) *rateRepo {
	return &rateRepo{pool: pool, defaultRate: defaultRate}
}

func (r *rateRepo) Get(ctx context.Context, currency string) (*model.ExchangeRate, error) {
	const sel = `SELECT currency, rate, updated_at FROM exchange_rates WHERE currency=$1;`

	rate := &model.ExchangeRate{}
	err := r.pool.QueryRow(ctx, sel, currency).Scan(&rate.Currency, &rate.Rate, &rate.UpdatedAt)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOperationFailed
	}

	// Lazy seed. ON CONFLICT DO NOTHING keeps concurrent first reads safe;
	// whoever loses the race just reads the winner's row.
	const ins = `
INSERT INTO exchange_rates (currency, rate, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (currency) DO NOTHING;`
	if _, err := r.pool.Exec(ctx, ins, currency, r.defaultRate); err != nil {
		return nil, domain.ErrOperationFailed
	}

	if err := r.pool.QueryRow(ctx, sel, currency).Scan(&rate.Currency, &rate.Rate, &rate.UpdatedAt); err != nil {
		return nil, domain.ErrOperationFailed
	}
	return rate, nil
}

func (r *rateRepo) Set(ctx context.Context, currency string, value float64) (*model.ExchangeRate, error) {
	const q = `
INSERT INTO exchange_rates (currency, rate, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (currency) DO UPDATE SET rate=$2, updated_at=NOW()
RETURNING currency, rate, updated_at;`

	rate := &model.ExchangeRate{}
	if err := r.pool.QueryRow(ctx, q, currency, value).Scan(&rate.Currency, &rate.Rate, &rate.UpdatedAt); err != nil {
		return nil, domain.ErrOperationFailed
	}
	return rate, nil
}
