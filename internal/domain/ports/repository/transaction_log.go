package repository

import (
	"context"
	"time"

	"farm-course-payments/internal/domain/model"
)

// TransactionLogRepository is the append-only audit trail of gateway
// callbacks. Append never updates; every delivery gets its own row.
type TransactionLogRepository interface {
	Append(ctx context.Context, rec *model.TransactionRecord) error

	// ListRecent returns the newest rows first, for the admin audit API.
	ListRecent(ctx context.Context, limit int) ([]*model.TransactionRecord, error)

	// ListUnresolved returns, per reference, the latest row when that row is
	// older than cutoff, still in a non-terminal status, and carries a poll
	// URL. The reconciler worker re-polls these.
	ListUnresolved(ctx context.Context, cutoff time.Time, limit int) ([]*model.TransactionRecord, error)
}
