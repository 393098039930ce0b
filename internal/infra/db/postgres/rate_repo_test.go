//go:build integration

// File: internal/infra/db/postgres/rate_repo_test.go
package postgres

import (
	"context"
	"testing"

	"farm-course-payments/internal/domain/model"
)

func TestRateRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewRateRepo(testPool, 30)

	t.Run("first read seeds the default rate", func(t *testing.T) {
		cleanup(t)

		rate, err := repo.Get(ctx, model.CurrencyZWG)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if rate.Rate != 30 || rate.Currency != model.CurrencyZWG {
			t.Errorf("seeded rate = %+v", rate)
		}

		// Second read comes from the row, not the default.
		again, err := repo.Get(ctx, model.CurrencyZWG)
		if err != nil {
			t.Fatalf("second Get: %v", err)
		}
		if again.Rate != 30 {
			t.Errorf("rate = %v", again.Rate)
		}
	})

	t.Run("set overrides and survives reads", func(t *testing.T) {
		cleanup(t)

		set, err := repo.Set(ctx, model.CurrencyZWG, 13.5701)
		if err != nil {
			t.Fatalf("Set: %v", err)
		}
		if set.Rate != 13.5701 {
			t.Errorf("set rate = %v", set.Rate)
		}

		got, err := repo.Get(ctx, model.CurrencyZWG)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Rate != 13.5701 {
			t.Errorf("rate = %v, default must not win over a stored row", got.Rate)
		}
	})
}
