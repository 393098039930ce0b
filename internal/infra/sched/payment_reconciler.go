// File: internal/infra/sched/payment_reconciler.go
package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"farm-course-payments/internal/domain/model"
	"farm-course-payments/internal/domain/ports/adapter"
	"farm-course-payments/internal/domain/ports/repository"
	"farm-course-payments/internal/usecase"
)

// PaymentReconciler periodically re-polls payments whose latest recorded
// status is still non-terminal. This covers webhooks that never arrived or
// a process that crashed between gateway confirmation and the grant.
type PaymentReconciler struct {
	webhooks   usecase.WebhookUseCase
	txlog      repository.TransactionLogRepository
	gateways   map[string]adapter.PaynowGateway // keyed by normalized currency
	interval   time.Duration                    // how often to scan
	staleAfter time.Duration                    // how old the latest row must be to retry
	log        *zerolog.Logger
}

func NewPaymentReconciler(webhooks usecase.WebhookUseCase, txlog repository.TransactionLogRepository, gateways map[string]adapter.PaynowGateway, interval, staleAfter time.Duration, logger *zerolog.Logger) *PaymentReconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	return &PaymentReconciler{
		webhooks:   webhooks,
		txlog:      txlog,
		gateways:   gateways,
		interval:   interval,
		staleAfter: staleAfter,
		log:        logger,
	}
}

func (w *PaymentReconciler) Start(ctx context.Context) {
	t := time.NewTicker(w.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.tick(ctx)
		}
	}
}

func (w *PaymentReconciler) tick(ctx context.Context) {
	cutoff := time.Now().Add(-w.staleAfter)
	pending, err := w.txlog.ListUnresolved(ctx, cutoff, 200)
	if err != nil {
		w.log.Error().Err(err).Msg("payment-reconciler: list unresolved failed")
		return
	}

	for _, rec := range pending {
		// Poll responses are signed with the credential set that created the
		// transaction, so the row's currency picks the client.
		gateway, ok := w.gateways[model.ResolveCurrency(rec.Currency)]
		if !ok {
			w.log.Warn().Str("reference", rec.Reference).Str("currency", rec.Currency).
				Msg("payment-reconciler: no gateway for currency")
			continue
		}
		st, err := gateway.Poll(ctx, rec.PollURL)
		if err != nil {
			w.log.Warn().Err(err).Str("reference", rec.Reference).Msg("payment-reconciler: poll failed")
			continue
		}
		if st.Status == rec.Status {
			// Nothing moved on the gateway side; skip the write.
			continue
		}
		outcome, err := w.webhooks.ApplyStatus(ctx, rec.Reference, st)
		if err != nil {
			w.log.Error().Err(err).Str("reference", rec.Reference).Msg("payment-reconciler: apply status failed")
			continue
		}
		w.log.Info().
			Str("reference", rec.Reference).
			Str("status", st.Status).
			Int("outcome", int(outcome)).
			Msg("payment-reconciler: reconciled")
	}
}
