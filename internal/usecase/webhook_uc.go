// File: internal/usecase/webhook_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"farm-course-payments/internal/domain"
	"farm-course-payments/internal/domain/model"
	"farm-course-payments/internal/domain/ports/adapter"
	"farm-course-payments/internal/domain/ports/repository"
	"farm-course-payments/internal/infra/logging"
	"farm-course-payments/internal/infra/metrics"
	"farm-course-payments/internal/infra/paynow"
)

// Compile-time check
var _ WebhookUseCase = (*webhookUC)(nil)

// ReconcileOutcome says what a webhook delivery amounted to. Anything other
// than an error is acknowledged 200 so the gateway stops retrying.
type ReconcileOutcome int

const (
	// ReconcileGranted: verified "paid" webhook applied to an entitlement.
	ReconcileGranted ReconcileOutcome = iota
	// ReconcileLogged: authentic non-paid status; audit row only.
	ReconcileLogged
	// ReconcileIgnored: authentic but unprocessable (missing fields, bad
	// reference shape, unknown user). Acknowledged without an update; a
	// retry could never succeed, so failing loudly would only make the
	// gateway hammer us forever.
	ReconcileIgnored
)

type WebhookUseCase interface {
	// Reconcile authenticates a form-decoded gateway callback and applies it
	// exactly once per terminal status. Keys must arrive exactly as the
	// gateway sent them: the signature is computed over that casing, and
	// only the field lookups are case-relaxed. Hash failures return
	// ErrHashMissing or ErrHashMismatch with zero state change; persistence
	// failures return ErrOperationFailed so the caller answers 5xx and the
	// gateway retries.
	Reconcile(ctx context.Context, fields map[string]string) (ReconcileOutcome, error)

	// ApplyStatus applies a gateway-confirmed poll result for a known
	// reference. The reconciler worker uses it to finalize payments whose
	// webhook never arrived; it shares the grant path with Reconcile.
	ApplyStatus(ctx context.Context, reference string, st *adapter.TransactionStatus) (ReconcileOutcome, error)
}

type webhookUC struct {
	keys         map[string]string // normalized currency -> integration key
	entitlements repository.UserEntitlementRepository
	txlog        repository.TransactionLogRepository
	dev          bool
	log          *zerolog.Logger
}

func NewWebhookUseCase(integrationKeys map[string]string, entitlements repository.UserEntitlementRepository, txlog repository.TransactionLogRepository, dev bool, logger *zerolog.Logger) *webhookUC {
	return &webhookUC{
		keys:         integrationKeys,
		entitlements: entitlements,
		txlog:        txlog,
		dev:          dev,
		log:          logger,
	}
}

func (u *webhookUC) Reconcile(ctx context.Context, fields map[string]string) (ReconcileOutcome, error) {
	supplied := fieldValue(fields, "hash")
	if supplied == "" {
		metrics.WebhookProcessed("rejected", "missing_hash")
		return 0, domain.ErrHashMissing
	}

	// USD selects the USD secret; any other currency string is the local set.
	// This is deliberately looser than checkout's currency fallback: the
	// gateway echoes whatever currency label the credential set carries.
	currency := fieldValue(fields, "currency")
	keyCurrency := model.CurrencyZWG
	if strings.EqualFold(strings.TrimSpace(currency), model.CurrencyUSD) {
		keyCurrency = model.CurrencyUSD
	}
	key := u.keys[keyCurrency]
	if key == "" {
		metrics.WebhookProcessed("rejected", "not_configured")
		return 0, domain.Wrap(domain.ErrNotConfigured,
			fmt.Sprintf("no integration key for currency %q", currency))
	}

	if !paynow.Verify(fields, key) {
		// Forensics get a redacted preview of both digests; full values
		// never hit the logs.
		u.log.Warn().
			Str("reference", fieldValue(fields, "reference")).
			Str("received_hash", logging.Redact(supplied, u.dev)).
			Str("expected_hash", logging.Redact(paynow.Hash(fields, key), u.dev)).
			Msg("webhook hash mismatch")
		metrics.WebhookProcessed("rejected", "hash_mismatch")
		return 0, domain.ErrHashMismatch
	}

	reference := fieldValue(fields, "reference")
	status := fieldValue(fields, "status")
	if reference == "" || status == "" {
		u.log.Warn().Msg("authentic webhook without reference/status, acknowledging without update")
		metrics.WebhookProcessed("ignored", "missing_fields")
		return ReconcileIgnored, nil
	}

	userID, refErr := model.UserIDFromReference(reference)

	amount := fieldValue(fields, "amount")
	rec := &model.TransactionRecord{
		ID:              uuid.NewString(),
		UserID:          userID,
		Reference:       reference,
		PaynowReference: fieldValue(fields, "paynowreference"),
		Amount:          amount,
		Currency:        currency,
		Status:          status,
		PollURL:         fieldValue(fields, "pollurl"),
		Payload:         fields,
		ProcessedAt:     time.Now(),
	}
	if err := u.txlog.Append(ctx, rec); err != nil {
		// Worth a retry from the gateway side.
		u.log.Error().Err(err).Str("reference", reference).Msg("transaction log append failed")
		return 0, domain.ErrOperationFailed
	}

	if refErr != nil {
		u.log.Warn().Str("reference", reference).Msg("webhook reference does not parse, acknowledging without update")
		metrics.WebhookProcessed("ignored", "bad_reference")
		return ReconcileIgnored, nil
	}

	return u.finalize(ctx, userID, reference, amount, status)
}

// fieldValue reads a webhook field by name regardless of the key casing the
// gateway used. The exact-case hit is free; the scan only runs for payloads
// that deviate from the usual all-lowercase keys.
func fieldValue(fields map[string]string, name string) string {
	if v, ok := fields[name]; ok {
		return v
	}
	for k, v := range fields {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func (u *webhookUC) ApplyStatus(ctx context.Context, reference string, st *adapter.TransactionStatus) (ReconcileOutcome, error) {
	userID, err := model.UserIDFromReference(reference)
	if err != nil {
		return ReconcileIgnored, nil
	}

	rec := &model.TransactionRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Reference: reference,
		Amount:    st.Amount,
		Status:    st.Status,
		Payload: map[string]string{
			"reference": reference,
			"amount":    st.Amount,
			"status":    st.Status,
			"source":    "reconciler",
		},
		ProcessedAt: time.Now(),
	}
	if err := u.txlog.Append(ctx, rec); err != nil {
		return 0, domain.ErrOperationFailed
	}

	return u.finalize(ctx, userID, reference, st.Amount, st.Status)
}

// finalize applies the entitlement change for a verified status. The grant
// is a flat overwrite of the same fields, so delivering the same "paid"
// status twice leaves the record field-for-field identical.
func (u *webhookUC) finalize(ctx context.Context, userID, reference, amount, status string) (ReconcileOutcome, error) {
	log := logging.With(ctx, u.log).With().Str("reference", reference).Str("user_id", userID).Logger()

	if !model.IsPaidStatus(status) {
		log.Info().Str("status", status).Msg("non-paid webhook status recorded")
		metrics.WebhookProcessed("logged", "not_paid")
		return ReconcileLogged, nil
	}

	if _, err := u.entitlements.FindByUserID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			log.Warn().Msg("paid webhook for unknown user, acknowledging without update")
			metrics.WebhookProcessed("ignored", "unknown_user")
			return ReconcileIgnored, nil
		}
		log.Error().Err(err).Msg("entitlement lookup failed")
		return 0, domain.ErrOperationFailed
	}

	grant := &model.UserEntitlement{
		UserID:                userID,
		Subscription:          true,
		SubscriptionStatus:    model.SubscriptionStatusActive,
		LastPaymentReference:  reference,
		LastPaymentAmount:     amount,
		SubscriptionUpdatedAt: time.Now(),
	}
	if err := u.entitlements.Grant(ctx, grant); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Row vanished between lookup and write; same answer as above.
			metrics.WebhookProcessed("ignored", "unknown_user")
			return ReconcileIgnored, nil
		}
		log.Error().Err(err).Msg("entitlement grant failed")
		return 0, domain.ErrOperationFailed
	}

	log.Info().Msg("entitlement activated")
	metrics.WebhookProcessed("granted", "paid")
	return ReconcileGranted, nil
}
