//go:build integration

// File: internal/infra/db/postgres/transaction_log_repo_test.go
package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"farm-course-payments/internal/domain/model"
)

func testRecord(reference, status string, age time.Duration) *model.TransactionRecord {
	return &model.TransactionRecord{
		ID:          uuid.NewString(),
		UserID:      "u1",
		Reference:   reference,
		Amount:      "49.99",
		Currency:    "USD",
		Status:      status,
		PollURL:     "https://gw.example/poll/" + reference,
		Payload:     map[string]string{"reference": reference, "status": status},
		ProcessedAt: time.Now().Add(-age),
	}
}

func TestTransactionLogRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	ctx := context.Background()
	repo := NewTransactionLogRepo(testPool)

	t.Run("should append and list newest first", func(t *testing.T) {
		cleanup(t)

		for i, rec := range []*model.TransactionRecord{
			testRecord("MF-u1-1", "Created", 3*time.Hour),
			testRecord("MF-u1-2", "Paid", 2*time.Hour),
			testRecord("MF-u1-3", "Sent", 1*time.Hour),
		} {
			if err := repo.Append(ctx, rec); err != nil {
				t.Fatalf("Append %d: %v", i, err)
			}
		}

		rows, err := repo.ListRecent(ctx, 2)
		if err != nil {
			t.Fatalf("ListRecent: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("rows = %d", len(rows))
		}
		if rows[0].Reference != "MF-u1-3" || rows[1].Reference != "MF-u1-2" {
			t.Errorf("order = %s, %s", rows[0].Reference, rows[1].Reference)
		}
		if rows[0].Payload["status"] != "Sent" {
			t.Errorf("payload round-trip = %+v", rows[0].Payload)
		}
	})

	t.Run("duplicate id is swallowed", func(t *testing.T) {
		cleanup(t)

		rec := testRecord("MF-u1-1", "Paid", 0)
		if err := repo.Append(ctx, rec); err != nil {
			t.Fatalf("first Append: %v", err)
		}
		if err := repo.Append(ctx, rec); err != nil {
			t.Fatalf("duplicate Append: %v", err)
		}
	})

	t.Run("unresolved picks stale non-terminal latest rows", func(t *testing.T) {
		cleanup(t)

		// ref1: stale and still pending -> wanted
		if err := repo.Append(ctx, testRecord("MF-u1-1", "Sent", 30*time.Minute)); err != nil {
			t.Fatal(err)
		}
		// ref2: was pending, latest row says paid -> resolved
		if err := repo.Append(ctx, testRecord("MF-u1-2", "Created", 40*time.Minute)); err != nil {
			t.Fatal(err)
		}
		if err := repo.Append(ctx, testRecord("MF-u1-2", "Paid", 20*time.Minute)); err != nil {
			t.Fatal(err)
		}
		// ref3: pending but too fresh to bother the gateway
		if err := repo.Append(ctx, testRecord("MF-u1-3", "Sent", time.Minute)); err != nil {
			t.Fatal(err)
		}
		// ref4: no poll handle, nothing to re-poll
		rec := testRecord("MF-u1-4", "Sent", time.Hour)
		rec.PollURL = ""
		if err := repo.Append(ctx, rec); err != nil {
			t.Fatal(err)
		}

		rows, err := repo.ListUnresolved(ctx, time.Now().Add(-10*time.Minute), 50)
		if err != nil {
			t.Fatalf("ListUnresolved: %v", err)
		}
		if len(rows) != 1 || rows[0].Reference != "MF-u1-1" {
			t.Fatalf("rows = %+v", rows)
		}
	})
}
