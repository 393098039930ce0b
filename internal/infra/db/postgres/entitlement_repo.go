// File: internal/infra/db/postgres/entitlement_repo.go
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

var _ repository.UserEntitlementRepository = (*entitlementRepo)(nil)

type entitlementRepo struct{ pool *pgxpool.Pool }

func NewEntitlementRepo(pool *pgxpool.Pool) *entitlementRepo {
	return &entitlementRepo{pool: pool}
}

func (r *entitlementRepo) FindByUserID(ctx context.Context, userID string) (*model.UserEntitlement, error) {
	const q = `
SELECT user_id,
       COALESCE(subscription, FALSE),
       COALESCE(subscription_status, ''),
       COALESCE(last_payment_reference, ''),
       COALESCE(last_payment_amount, ''),
       COALESCE(subscription_updated_at, 'epoch'::timestamptz)
FROM users WHERE user_id=$1;`

	e := &model.UserEntitlement{}
	err := r.pool.QueryRow(ctx, q, userID).Scan(
		&e.UserID, &e.Subscription, &e.SubscriptionStatus,
		&e.LastPaymentReference, &e.LastPaymentAmount, &e.SubscriptionUpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrOperationFailed
	}
	return e, nil
}

func (r *entitlementRepo) Grant(ctx context.Context, e *model.UserEntitlement) error {
	// Update only. A payment for a user without a row must not fabricate one.
	const q = `
UPDATE users SET
  subscription=$2,
  subscription_status=$3,
  last_payment_reference=$4,
  last_payment_amount=$5,
  subscription_updated_at=$6
WHERE user_id=$1;`

	tag, err := r.pool.Exec(ctx, q,
		e.UserID, e.Subscription, e.SubscriptionStatus,
		e.LastPaymentReference, e.LastPaymentAmount, e.SubscriptionUpdatedAt)
	if err != nil {
		return domain.ErrOperationFailed
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
