package repository

import (
	"context"

	"farm-course-payments/internal/domain/model"
)

// UserEntitlementRepository owns the per-user course access record.
type UserEntitlementRepository interface {
	// FindByUserID returns domain.ErrNotFound for an unknown user.
	FindByUserID(ctx context.Context, userID string) (*model.UserEntitlement, error)

	// Grant overwrites the entitlement fields of an existing row. It never
	// inserts: a webhook for a user we do not know must not create a phantom
	// record, so a missing row surfaces as domain.ErrNotFound. The overwrite
	// is flat, making repeated grants for the same payment idempotent.
	Grant(ctx context.Context, e *model.UserEntitlement) error
}
