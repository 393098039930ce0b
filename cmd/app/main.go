// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"farm-course-payments/internal/config"
	"farm-course-payments/internal/domain/model"
	"farm-course-payments/internal/domain/ports/adapter"
	pg "farm-course-payments/internal/infra/db/postgres"
	"farm-course-payments/internal/infra/logging"
	"farm-course-payments/internal/infra/metrics"
	"farm-course-payments/internal/infra/paynow"
	red "farm-course-payments/internal/infra/redis"
	"farm-course-payments/internal/infra/sched"
	"farm-course-payments/internal/infra/web"
	"farm-course-payments/internal/usecase"
)

var version = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (verbose logs, full values in log fields)")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	// ---- Metrics ----
	metrics.MustRegister()
	metrics.SetBuildInfo(version, runtime.Version())

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()

	// ---- Repositories ----
	entitlementRepo := pg.NewEntitlementRepo(pool)
	txlogRepo := pg.NewTransactionLogRepo(pool)
	rateRepo := pg.NewRateRepoCacheDecorator(
		pg.NewRateRepo(pool, cfg.Pricing.DefaultZWGRate), redisClient, cfg.Redis.TTL)

	// ---- Paynow gateways, one client per credential set ----
	gateways := make(map[string]adapter.PaynowGateway)
	for currency, creds := range map[string]config.CredentialSet{
		model.CurrencyUSD: cfg.Paynow.USD,
		model.CurrencyZWG: cfg.Paynow.ZWG,
	} {
		if creds.IntegrationID == "" {
			logger.Warn().Str("currency", currency).Msg("no gateway credentials, currency disabled")
			continue
		}
		client, err := paynow.NewClient(creds.IntegrationID, creds.IntegrationKey,
			cfg.Paynow.ResultURL(), cfg.Paynow.ReturnURL(), cfg.Paynow.Sandbox, logger)
		if err != nil {
			logger.Fatal().Err(err).Str("currency", currency).Msg("paynow client")
		}
		gateways[currency] = client
	}

	// ---- Use cases ----
	checkoutUC := usecase.NewCheckoutUseCase(gateways, rateRepo,
		cfg.Pricing.ProductName, cfg.Pricing.BasePriceUSD, logger)
	statusUC := usecase.NewStatusUseCase(gateways, logger)
	webhookUC := usecase.NewWebhookUseCase(cfg.Paynow.IntegrationKeys(),
		entitlementRepo, txlogRepo, cfg.Runtime.Dev, logger)

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, "", cfg.Admin.SessionTTL)
	srv := web.NewServer(checkoutUC, statusUC, webhookUC, txlogRepo, rateRepo,
		auth, cfg.Admin.Password, cfg.Server.CORSOrigins, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Reconciler worker ----
	if cfg.Reconciler.Disabled {
		logger.Warn().Msg("payment reconciler disabled")
	} else {
		worker := sched.NewPaymentReconciler(webhookUC, txlogRepo, gateways,
			cfg.Reconciler.Interval, cfg.Reconciler.StaleAfter, logger)
		go worker.Start(ctx)
	}

	// ---- Pool stats ----
	go func() {
		t := time.NewTicker(15 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				st := pool.Stat()
				metrics.SetDBPoolStats(int(st.TotalConns()), int(st.IdleConns()), int(st.AcquiredConns()))
			}
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
