//go:build !integration

// File: internal/infra/web/mock_test.go
package web

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"farm-course-payments/internal/domain"
	"farm-course-payments/internal/domain/model"
	"farm-course-payments/internal/domain/ports/adapter"
)

func testLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

type fakeEntitlementRepo struct {
	mu   sync.Mutex
	rows map[string]*model.UserEntitlement
}

func newFakeEntitlementRepo() *fakeEntitlementRepo {
	return &fakeEntitlementRepo{rows: make(map[string]*model.UserEntitlement)}
}

func (r *fakeEntitlementRepo) FindByUserID(_ context.Context, userID string) (*model.UserEntitlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.rows[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeEntitlementRepo) Grant(_ context.Context, e *model.UserEntitlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[e.UserID]; !ok {
		return domain.ErrNotFound
	}
	cp := *e
	r.rows[e.UserID] = &cp
	return nil
}

type fakeTxLogRepo struct {
	mu   sync.Mutex
	rows []*model.TransactionRecord
}

func (r *fakeTxLogRepo) Append(_ context.Context, rec *model.TransactionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *fakeTxLogRepo) ListRecent(_ context.Context, limit int) ([]*model.TransactionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.TransactionRecord
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.rows[i])
	}
	return out, nil
}

func (r *fakeTxLogRepo) ListUnresolved(context.Context, time.Time, int) ([]*model.TransactionRecord, error) {
	return nil, nil
}

type fakeRateRepo struct {
	mu    sync.Mutex
	rates map[string]float64
}

func newFakeRateRepo() *fakeRateRepo {
	return &fakeRateRepo{rates: map[string]float64{model.CurrencyZWG: 30}}
}

func (r *fakeRateRepo) Get(_ context.Context, currency string) (*model.ExchangeRate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &model.ExchangeRate{Currency: currency, Rate: r.rates[currency], UpdatedAt: time.Now()}, nil
}

func (r *fakeRateRepo) Set(_ context.Context, currency string, rate float64) (*model.ExchangeRate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rates[currency] = rate
	return &model.ExchangeRate{Currency: currency, Rate: rate, UpdatedAt: time.Now()}, nil
}

type fakeGateway struct {
	mobileFn   func(adapter.PaymentIntent, string, string) (*adapter.InitiateResult, error)
	initiateFn func(adapter.PaymentIntent) (*adapter.InitiateResult, error)
	pollFn     func(string) (*adapter.TransactionStatus, error)
}

func (g *fakeGateway) InitiateTransaction(_ context.Context, intent adapter.PaymentIntent) (*adapter.InitiateResult, error) {
	if g.initiateFn == nil {
		// Real initiate replies carry both handles.
		return &adapter.InitiateResult{
			RedirectURL: "https://gw.example/redirect",
			PollURL:     "https://gw.example/poll/redirect",
		}, nil
	}
	return g.initiateFn(intent)
}

func (g *fakeGateway) InitiateMobile(_ context.Context, intent adapter.PaymentIntent, phone, method string) (*adapter.InitiateResult, error) {
	if g.mobileFn == nil {
		return &adapter.InitiateResult{PollURL: "https://gw.example/poll/1"}, nil
	}
	return g.mobileFn(intent, phone, method)
}

func (g *fakeGateway) Poll(_ context.Context, pollURL string) (*adapter.TransactionStatus, error) {
	if g.pollFn == nil {
		return &adapter.TransactionStatus{Status: "created"}, nil
	}
	return g.pollFn(pollURL)
}
