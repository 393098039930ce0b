// File: internal/infra/web/server.go
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"farm-course-payments/internal/domain/ports/repository"
	"farm-course-payments/internal/infra/api"
	"farm-course-payments/internal/usecase"
)

type Server struct {
	checkoutUC usecase.CheckoutUseCase
	statusUC   usecase.StatusUseCase
	webhookUC  usecase.WebhookUseCase
	txlog      repository.TransactionLogRepository
	rates      repository.ExchangeRateRepository
	auth       *AuthManager
	adminPass  string
	corsOrigin []string
	log        *zerolog.Logger
}

func NewServer(
	checkoutUC usecase.CheckoutUseCase,
	statusUC usecase.StatusUseCase,
	webhookUC usecase.WebhookUseCase,
	txlog repository.TransactionLogRepository,
	rates repository.ExchangeRateRepository,
	auth *AuthManager,
	adminPassword string,
	corsOrigins []string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		checkoutUC: checkoutUC,
		statusUC:   statusUC,
		webhookUC:  webhookUC,
		txlog:      txlog,
		rates:      rates,
		auth:       auth,
		adminPass:  adminPassword,
		corsOrigin: corsOrigins,
		log:        logger,
	}
}

// Handler builds the full route tree with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigin,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/payments", func(r chi.Router) {
			r.Post("/initiate", s.initiateHandler())
			r.Post("/status", s.statusHandler())
			r.Post("/webhook", s.webhookHandler())
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", s.loginHandler())
			r.Group(func(r chi.Router) {
				r.Use(s.auth.Middleware)
				r.Post("/logout", s.logoutHandler())
				r.Get("/transactions", s.transactionsHandler())
				r.Get("/rate", s.rateGetHandler())
				r.Post("/rate", s.rateSetHandler())
			})
		})
	})

	return api.Chain(r,
		api.Recover(s.log),
		api.TraceID(),
		api.RequestLog(s.log),
		api.Timeout(60*time.Second),
	)
}
