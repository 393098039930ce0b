// File: cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"farm-course-payments/internal/config"
	"farm-course-payments/internal/domain/model"
	pg "farm-course-payments/internal/infra/db/postgres"
)

// Applies the schema and seeds the exchange rate table so a fresh
// environment can take payments without manual SQL.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	schemaPath := flag.String("schema", "deploy/postgres/init.sql", "path to schema file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	schema, err := os.ReadFile(*schemaPath)
	if err != nil {
		log.Fatalf("read schema: %v", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("apply schema: %v", err)
	}
	fmt.Println("schema applied")

	rates := pg.NewRateRepo(pool, cfg.Pricing.DefaultZWGRate)
	rate, err := rates.Get(ctx, model.CurrencyZWG)
	if err != nil {
		log.Fatalf("seed rate: %v", err)
	}
	fmt.Printf("ZWG rate: %.4f (updated %s)\n", rate.Rate, rate.UpdatedAt.Format(time.RFC3339))
}
