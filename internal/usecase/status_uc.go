// File: internal/usecase/status_uc.go
package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"farm-course-payments/internal/domain"
	"farm-course-payments/internal/domain/model"
	"farm-course-payments/internal/domain/ports/adapter"
)

// Compile-time check
var _ StatusUseCase = (*statusUC)(nil)

type StatusUseCase interface {
	// Check forwards a status query to the gateway for a previously issued
	// poll handle. It is a read-through proxy: it never mutates state, and
	// internal failures come back as a normalized "error" status rather
	// than an error, so clients just keep polling or give up.
	Check(ctx context.Context, pollURL string) (*adapter.TransactionStatus, error)
}

// pollOrder fixes which credential set is tried first. A poll handle does
// not say which set created the transaction, so Check walks the configured
// gateways until one's key verifies the response.
var pollOrder = []string{model.CurrencyUSD, model.CurrencyZWG}

type statusUC struct {
	gateways map[string]adapter.PaynowGateway // keyed by normalized currency
	log      *zerolog.Logger
}

func NewStatusUseCase(gateways map[string]adapter.PaynowGateway, logger *zerolog.Logger) *statusUC {
	return &statusUC{gateways: gateways, log: logger}
}

func (u *statusUC) Check(ctx context.Context, pollURL string) (*adapter.TransactionStatus, error) {
	if strings.TrimSpace(pollURL) == "" {
		return nil, domain.Wrap(domain.ErrInvalidArgument, "Missing pollUrl in request body.")
	}
	// Only forward well-formed gateway addresses; this endpoint must not be
	// usable as an open relay.
	if !strings.HasPrefix(pollURL, "http://") && !strings.HasPrefix(pollURL, "https://") {
		return nil, domain.Wrap(domain.ErrInvalidArgument, "Invalid pollUrl format.")
	}

	var lastErr error
	for _, currency := range pollOrder {
		gateway, ok := u.gateways[currency]
		if !ok {
			continue
		}
		st, err := gateway.Poll(ctx, pollURL)
		if err == nil {
			return st, nil
		}
		lastErr = err
		if errors.Is(err, domain.ErrHashMismatch) {
			// Signed with another credential set's key; try the next one.
			continue
		}
		break
	}

	u.log.Warn().Err(lastErr).Str("poll_url", pollURL).Msg("transaction status poll failed")
	return &adapter.TransactionStatus{Status: "error"}, nil
}
