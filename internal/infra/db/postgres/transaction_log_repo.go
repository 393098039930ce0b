// File: internal/infra/db/postgres/transaction_log_repo.go
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"farm-course-payments/internal/domain"
	"farm-course-payments/internal/domain/model"
	"farm-course-payments/internal/domain/ports/repository"
)

var _ repository.TransactionLogRepository = (*transactionLogRepo)(nil)

type transactionLogRepo struct{ pool *pgxpool.Pool }

func NewTransactionLogRepo(pool *pgxpool.Pool) *transactionLogRepo {
	return &transactionLogRepo{pool: pool}
}

func (r *transactionLogRepo) Append(ctx context.Context, rec *model.TransactionRecord) error {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return domain.Wrap(domain.ErrInvalidArgument, "transaction payload is not serializable")
	}

	const q = `
INSERT INTO transaction_logs (
  id, user_id, reference, paynow_reference, amount, currency, status, poll_url, payload, processed_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10);`

	_, err = r.pool.Exec(ctx, q,
		rec.ID, rec.UserID, rec.Reference, rec.PaynowReference,
		rec.Amount, rec.Currency, rec.Status, rec.PollURL, payload, rec.ProcessedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Duplicate ID means this exact row already landed.
			return nil
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *transactionLogRepo) ListRecent(ctx context.Context, limit int) ([]*model.TransactionRecord, error) {
	const q = `
SELECT id, user_id, reference, paynow_reference, amount, currency, status, poll_url, payload, processed_at
FROM transaction_logs
ORDER BY processed_at DESC
LIMIT $1;`

	rows, err := r.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	return scanRecords(rows)
}

func (r *transactionLogRepo) ListUnresolved(ctx context.Context, cutoff time.Time, limit int) ([]*model.TransactionRecord, error) {
	// Latest row per reference; keep only the ones still worth re-polling.
	const q = `
SELECT id, user_id, reference, paynow_reference, amount, currency, status, poll_url, payload, processed_at
FROM (
  SELECT DISTINCT ON (reference) *
  FROM transaction_logs
  ORDER BY reference, processed_at DESC
) latest
WHERE LOWER(status) NOT IN ('paid', 'cancelled')
  AND poll_url <> ''
  AND processed_at < $1
ORDER BY processed_at ASC
LIMIT $2;`

	rows, err := r.pool.Query(ctx, q, cutoff, limit)
	if err != nil {
		return nil, domain.ErrOperationFailed
	}
	defer rows.Close()
	return scanRecords(rows)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

func scanRecords(rows rowScanner) ([]*model.TransactionRecord, error) {
	var out []*model.TransactionRecord
	for rows.Next() {
		rec := &model.TransactionRecord{}
		var payload []byte
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Reference, &rec.PaynowReference,
			&rec.Amount, &rec.Currency, &rec.Status, &rec.PollURL, &payload, &rec.ProcessedAt); err != nil {
			return nil, domain.ErrOperationFailed
		}
		if len(payload) > 0 {
			_ = json.Unmarshal(payload, &rec.Payload)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrOperationFailed
	}
	return out, nil
}
