// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"` // site origins allowed to call the payment API
}

type AdminConfig struct {
	Password   string        `yaml:"password"`
	JWTSecret  string        `yaml:"jwt_secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// CredentialSet is one Paynow integration (id + key). The key signs outbound
// requests and authenticates inbound webhooks for its currency.
type CredentialSet struct {
	IntegrationID  string `yaml:"integration_id"`
	IntegrationKey string `yaml:"integration_key"`
}

type PaynowConfig struct {
	Sandbox    bool          `yaml:"sandbox"`
	SiteURL    string        `yaml:"site_url"`     // public base URL of the course site
	ResultPath string        `yaml:"result_path"`  // webhook path appended to site_url
	ReturnPath string        `yaml:"return_path"`  // browser return path appended to site_url
	USD        CredentialSet `yaml:"usd"`
	ZWG        CredentialSet `yaml:"zwg"`
}

type PricingConfig struct {
	ProductName    string  `yaml:"product_name"`
	BasePriceUSD   float64 `yaml:"base_price_usd"`
	DefaultZWGRate float64 `yaml:"default_zwg_rate"` // seeds the rate document on first read
}

type ReconcilerConfig struct {
	Interval   time.Duration `yaml:"interval"`
	StaleAfter time.Duration `yaml:"stale_after"`
	Disabled   bool          `yaml:"disabled"`
}

type Config struct {
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
	Admin      AdminConfig      `yaml:"admin"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Paynow     PaynowConfig     `yaml:"paynow"`
	Pricing    PricingConfig    `yaml:"pricing"`
	Reconciler ReconcilerConfig `yaml:"reconciler"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file, overlays secret material from the
// environment, applies defaults, and validates the result. The returned
// Config is built once at process start and passed by reference into every
// handler; nothing re-reads configuration after this.
func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnv(&cfg)

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Admin.SessionTTL <= 0 {
		cfg.Admin.SessionTTL = 30 * time.Minute
	}
	if cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = time.Hour
	}
	if cfg.Paynow.ResultPath == "" {
		cfg.Paynow.ResultPath = "/api/v1/payments/webhook"
	}
	if cfg.Paynow.ReturnPath == "" {
		cfg.Paynow.ReturnPath = "/payment.html"
	}
	if cfg.Pricing.ProductName == "" {
		cfg.Pricing.ProductName = "Modern Farmer Full Access"
	}
	if cfg.Pricing.BasePriceUSD <= 0 {
		cfg.Pricing.BasePriceUSD = 49.99
	}
	if cfg.Pricing.DefaultZWGRate <= 0 {
		cfg.Pricing.DefaultZWGRate = 30
	}
	if cfg.Reconciler.Interval <= 0 {
		cfg.Reconciler.Interval = time.Minute
	}
	if cfg.Reconciler.StaleAfter <= 0 {
		cfg.Reconciler.StaleAfter = 10 * time.Minute
	}

	// Minimal validation. Missing gateway credentials are an operator error
	// and must fail here, at startup, not per-request.
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Paynow.SiteURL == "" {
		return nil, errors.New("paynow.site_url is required")
	}
	if cfg.Paynow.USD.IntegrationID == "" || cfg.Paynow.USD.IntegrationKey == "" {
		return nil, errors.New("paynow.usd credentials are required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// ResultURL is the absolute webhook address configured on every initiation.
func (p PaynowConfig) ResultURL() string {
	return strings.TrimRight(p.SiteURL, "/") + p.ResultPath
}

// ReturnURL is the absolute browser return address.
func (p PaynowConfig) ReturnURL() string {
	return strings.TrimRight(p.SiteURL, "/") + p.ReturnPath
}

// IntegrationKeys maps normalized currency codes onto webhook verification
// secrets. An unconfigured local set simply has no entry.
func (p PaynowConfig) IntegrationKeys() map[string]string {
	keys := map[string]string{}
	if p.USD.IntegrationKey != "" {
		keys["USD"] = p.USD.IntegrationKey
	}
	if p.ZWG.IntegrationKey != "" {
		keys["ZWG"] = p.ZWG.IntegrationKey
	}
	return keys
}

func applyEnv(cfg *Config) {
	overlay := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	overlay(&cfg.Database.URL, "DATABASE_URL")
	overlay(&cfg.Redis.URL, "REDIS_URL")
	overlay(&cfg.Paynow.SiteURL, "SITE_URL")
	overlay(&cfg.Paynow.USD.IntegrationID, "PAYNOW_ID_USD")
	overlay(&cfg.Paynow.USD.IntegrationKey, "PAYNOW_KEY_USD")
	overlay(&cfg.Paynow.ZWG.IntegrationID, "PAYNOW_ID_ZWG")
	overlay(&cfg.Paynow.ZWG.IntegrationKey, "PAYNOW_KEY_ZWG")
	overlay(&cfg.Admin.JWTSecret, "ADMIN_JWT_SECRET")
	overlay(&cfg.Admin.Password, "ADMIN_PASSWORD")
	if v := os.Getenv("PAYNOW_SANDBOX"); v != "" {
		cfg.Paynow.Sandbox = strings.EqualFold(v, "true") || v == "1"
	}
}
