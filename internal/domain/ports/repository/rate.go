package repository

import (
	"context"

	"farm-course-payments/internal/domain/model"
)

// ExchangeRateRepository holds the mutable USD-to-local conversion rate.
type ExchangeRateRepository interface {
	// Get returns the stored rate for a currency. When no row exists yet it
	// seeds one with the configured default and returns that: the read path
	// doubles as lazy initialization.
	Get(ctx context.Context, currency string) (*model.ExchangeRate, error)

	// Set stores a new rate and returns the resulting document.
	Set(ctx context.Context, currency string, rate float64) (*model.ExchangeRate, error)
}
