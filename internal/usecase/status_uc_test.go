//go:build !integration

// File: internal/usecase/status_uc_test.go
package usecase

import (
	"context"
	"errors"
	"testing"

	"farm-course-payments/internal/domain"
	"farm-course-payments/internal/domain/model"
	"farm-course-payments/internal/domain/ports/adapter"
)

func statusGateways(gws ...adapter.PaynowGateway) map[string]adapter.PaynowGateway {
	out := map[string]adapter.PaynowGateway{model.CurrencyUSD: gws[0]}
	if len(gws) > 1 {
		out[model.CurrencyZWG] = gws[1]
	}
	return out
}

func TestStatus_Check(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards poll result", func(t *testing.T) {
		gw := &mockGateway{
			pollFn: func(pollURL string) (*adapter.TransactionStatus, error) {
				if pollURL != "https://gw.example/poll/1" {
					t.Errorf("pollURL = %q", pollURL)
				}
				return &adapter.TransactionStatus{Reference: "MF-u1-1", Amount: "49.99", Status: "Paid", Paid: true}, nil
			},
		}
		uc := NewStatusUseCase(statusGateways(gw), newTestLogger())

		st, err := uc.Check(ctx, "https://gw.example/poll/1")
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if !st.Paid || st.Status != "Paid" {
			t.Errorf("status = %+v", st)
		}
	})

	t.Run("local currency response verified by the second credential set", func(t *testing.T) {
		usd := &mockGateway{
			pollFn: func(string) (*adapter.TransactionStatus, error) {
				return nil, domain.Wrap(domain.ErrHashMismatch, "paynow: poll response hash mismatch")
			},
		}
		zwg := &mockGateway{
			pollFn: func(string) (*adapter.TransactionStatus, error) {
				return &adapter.TransactionStatus{Reference: "MF-u1-1", Amount: "1499.70", Status: "Paid", Paid: true}, nil
			},
		}
		uc := NewStatusUseCase(statusGateways(usd, zwg), newTestLogger())

		st, err := uc.Check(ctx, "https://gw.example/poll/1")
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if !st.Paid || st.Amount != "1499.70" {
			t.Errorf("status = %+v", st)
		}
	})

	t.Run("no credential set verifies", func(t *testing.T) {
		mismatch := func(string) (*adapter.TransactionStatus, error) {
			return nil, domain.Wrap(domain.ErrHashMismatch, "paynow: poll response hash mismatch")
		}
		uc := NewStatusUseCase(statusGateways(&mockGateway{pollFn: mismatch}, &mockGateway{pollFn: mismatch}), newTestLogger())

		st, err := uc.Check(ctx, "https://gw.example/poll/1")
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if st.Status != "error" || st.Paid {
			t.Errorf("status = %+v", st)
		}
	})

	t.Run("empty poll url", func(t *testing.T) {
		uc := NewStatusUseCase(statusGateways(&mockGateway{}), newTestLogger())
		_, err := uc.Check(ctx, "  ")
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("want ErrInvalidArgument, got %v", err)
		}
		if err.Error() != "Missing pollUrl in request body." {
			t.Errorf("message = %q", err.Error())
		}
	})

	t.Run("non http poll url", func(t *testing.T) {
		uc := NewStatusUseCase(statusGateways(&mockGateway{}), newTestLogger())
		_, err := uc.Check(ctx, "ftp://gw.example/poll/1")
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("want ErrInvalidArgument, got %v", err)
		}
		if err.Error() != "Invalid pollUrl format." {
			t.Errorf("message = %q", err.Error())
		}
	})

	t.Run("gateway failure normalizes to error status", func(t *testing.T) {
		gw := &mockGateway{
			pollFn: func(string) (*adapter.TransactionStatus, error) {
				return nil, errors.New("connection reset")
			},
		}
		zwg := &mockGateway{}
		uc := NewStatusUseCase(statusGateways(gw, zwg), newTestLogger())

		st, err := uc.Check(ctx, "https://gw.example/poll/1")
		if err != nil {
			t.Fatalf("Check: %v", err)
		}
		if st.Status != "error" || st.Paid {
			t.Errorf("status = %+v", st)
		}
	})
}
