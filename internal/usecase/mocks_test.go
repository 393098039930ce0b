//go:build !integration

// File: internal/usecase/mocks_test.go
package usecase

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

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// memEntitlementRepo is an in-memory UserEntitlementRepository.
type memEntitlementRepo struct {
	mu    sync.Mutex
	rows  map[string]*model.UserEntitlement
	fail  error // forced error on any call when set
	calls int
}

func newMemEntitlementRepo() *memEntitlementRepo {
	return &memEntitlementRepo{rows: make(map[string]*model.UserEntitlement)}
}

func (r *memEntitlementRepo) FindByUserID(_ context.Context, userID string) (*model.UserEntitlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	e, ok := r.rows[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *memEntitlementRepo) Grant(_ context.Context, e *model.UserEntitlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	if _, ok := r.rows[e.UserID]; !ok {
		return domain.ErrNotFound
	}
	r.calls++
	cp := *e
	r.rows[e.UserID] = &cp
	return nil
}

// memTxLogRepo is an in-memory TransactionLogRepository.
type memTxLogRepo struct {
	mu   sync.Mutex
	rows []*model.TransactionRecord
	fail error
}

func newMemTxLogRepo() *memTxLogRepo { return &memTxLogRepo{} }

func (r *memTxLogRepo) Append(_ context.Context, rec *model.TransactionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	cp := *rec
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *memTxLogRepo) ListRecent(_ context.Context, limit int) ([]*model.TransactionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.TransactionRecord, 0, limit)
	for i := len(r.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.rows[i])
	}
	return out, nil
}

func (r *memTxLogRepo) ListUnresolved(_ context.Context, cutoff time.Time, limit int) ([]*model.TransactionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	latest := make(map[string]*model.TransactionRecord)
	for _, rec := range r.rows {
		latest[rec.Reference] = rec
	}
	var out []*model.TransactionRecord
	for _, rec := range latest {
		if len(out) >= limit {
			break
		}
		if rec.PollURL == "" || model.IsPaidStatus(rec.Status) || rec.Status == "cancelled" {
			continue
		}
		if rec.ProcessedAt.Before(cutoff) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// memRateRepo is an in-memory ExchangeRateRepository with lazy seeding.
type memRateRepo struct {
	mu          sync.Mutex
	rates       map[string]float64
	defaultRate float64
	fail        error
}

func newMemRateRepo(defaultRate float64) *memRateRepo {
	return &memRateRepo{rates: make(map[string]float64), defaultRate: defaultRate}
}

func (r *memRateRepo) Get(_ context.Context, currency string) (*model.ExchangeRate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	v, ok := r.rates[currency]
	if !ok {
		v = r.defaultRate
		r.rates[currency] = v
	}
	return &model.ExchangeRate{Currency: currency, Rate: v, UpdatedAt: time.Now()}, nil
}

func (r *memRateRepo) Set(_ context.Context, currency string, rate float64) (*model.ExchangeRate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rates[currency] = rate
	return &model.ExchangeRate{Currency: currency, Rate: rate, UpdatedAt: time.Now()}, nil
}

// mockGateway records calls and replies with settable funcs.
type mockGateway struct {
	mu            sync.Mutex
	initiateFn    func(adapter.PaymentIntent) (*adapter.InitiateResult, error)
	mobileFn      func(adapter.PaymentIntent, string, string) (*adapter.InitiateResult, error)
	pollFn        func(string) (*adapter.TransactionStatus, error)
	initiateCalls int
	mobileCalls   int
	lastIntent    adapter.PaymentIntent
	lastPhone     string
	lastMethod    string
}

func (g *mockGateway) InitiateTransaction(_ context.Context, intent adapter.PaymentIntent) (*adapter.InitiateResult, error) {
	g.mu.Lock()
	g.initiateCalls++
	g.lastIntent = intent
	fn := g.initiateFn
	g.mu.Unlock()
	if fn == nil {
		// Real initiate replies carry both handles.
		return &adapter.InitiateResult{
			RedirectURL: "https://gw.example/redirect",
			PollURL:     "https://gw.example/poll/redirect",
		}, nil
	}
	return fn(intent)
}

func (g *mockGateway) InitiateMobile(_ context.Context, intent adapter.PaymentIntent, phone, method string) (*adapter.InitiateResult, error) {
	g.mu.Lock()
	g.mobileCalls++
	g.lastIntent = intent
	g.lastPhone = phone
	g.lastMethod = method
	fn := g.mobileFn
	g.mu.Unlock()
	if fn == nil {
		return &adapter.InitiateResult{PollURL: "https://gw.example/poll/1"}, nil
	}
	return fn(intent, phone, method)
}

func (g *mockGateway) Poll(_ context.Context, pollURL string) (*adapter.TransactionStatus, error) {
	g.mu.Lock()
	fn := g.pollFn
	g.mu.Unlock()
	if fn == nil {
		return &adapter.TransactionStatus{Status: "created"}, nil
	}
	return fn(pollURL)
}
