package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/utafrali/storefront/internal/domain"
	pkgconfig "github.com/utafrali/storefront/pkg/config"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/middleware"
)

// Store backends for carts and wishlists.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort       int           `env:"CART_HTTP_PORT" envDefault:"8003"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	CORSOrigins    []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	PprofCIDRs     []string      `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32" envSeparator:","`

	// Rate limiting per shopper. RATE_LIMIT_RPS=0 disables it.
	RateLimitRPS        float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst      int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
	PromoAttemptsPerMin int     `env:"PROMO_ATTEMPTS_PER_MINUTE" envDefault:"10"`

	// Storage
	Store     string `env:"CART_STORE" envDefault:"memory"`
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL in hours (default: 7 days)
	CartTTL  int  `env:"CART_TTL_HOURS" envDefault:"168"`
	SeedDemo bool `env:"CART_SEED_DEMO" envDefault:"true"`

	// Pricing
	Currency              currency.Unit   `env:"CART_CURRENCY" envDefault:"USD"`
	TaxRate               decimal.Decimal `env:"TAX_RATE" envDefault:"0.08"`
	FreeShippingThreshold decimal.Decimal `env:"FREE_SHIPPING_THRESHOLD" envDefault:"100"`
	ShippingFee           decimal.Decimal `env:"SHIPPING_FEE" envDefault:"9.99"`
	PromoCodes            string          `env:"PROMO_CODES" envDefault:"SAVE10:10"`

	// Catalog backend simulation
	CatalogLatency         time.Duration `env:"CATALOG_LATENCY" envDefault:"300ms"`
	CatalogSimulateFailure bool          `env:"CATALOG_SIMULATE_FAILURE" envDefault:"false"`
	CatalogCacheTTL        time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"60s"`

	// Kafka
	EventsEnabled bool     `env:"EVENTS_ENABLED" envDefault:"false"`
	KafkaBrokers  []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	promos domain.PromoTable
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CartTTLDuration converts CartTTL to a time.Duration.
func (c *Config) CartTTLDuration() time.Duration {
	return time.Duration(c.CartTTL) * time.Hour
}

// Pricing returns the pricing rules.
func (c *Config) Pricing() domain.Pricing {
	return domain.Pricing{
		TaxRate:               c.TaxRate,
		FreeShippingThreshold: c.FreeShippingThreshold,
		ShippingFee:           c.ShippingFee,
	}
}

// Promos returns the promo table parsed from PROMO_CODES.
func (c *Config) Promos() domain.PromoTable {
	return c.promos
}

// ShopperRateLimit is the token bucket applied to cart and wishlist calls.
func (c *Config) ShopperRateLimit() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{RPS: c.RateLimitRPS, Burst: c.RateLimitBurst}
}

// PromoRateLimit allows PromoAttemptsPerMin promo submissions per minute,
// all of which may be spent at once.
func (c *Config) PromoRateLimit() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		RPS:   float64(c.PromoAttemptsPerMin) / 60,
		Burst: c.PromoAttemptsPerMin,
	}
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	if c.Store != StoreMemory && c.Store != StoreRedis {
		return fmt.Errorf("CART_STORE must be %q or %q, got %q", StoreMemory, StoreRedis, c.Store)
	}
	if c.CartTTL < 1 {
		return fmt.Errorf("CART_TTL_HOURS must be positive, got %d", c.CartTTL)
	}
	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("TAX_RATE must be in [0, 1), got %s", c.TaxRate)
	}
	if c.FreeShippingThreshold.IsNegative() {
		return fmt.Errorf("FREE_SHIPPING_THRESHOLD must not be negative, got %s", c.FreeShippingThreshold)
	}
	if c.ShippingFee.IsNegative() {
		return fmt.Errorf("SHIPPING_FEE must not be negative, got %s", c.ShippingFee)
	}
	if c.CatalogLatency < 0 {
		return fmt.Errorf("CATALOG_LATENCY must not be negative, got %s", c.CatalogLatency)
	}
	if c.EventsEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when EVENTS_ENABLED is set")
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 || c.PromoAttemptsPerMin < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %v", c.OTELSampleRate)
	}

	promos, err := domain.ParsePromoTable(c.PromoCodes)
	if err != nil {
		return fmt.Errorf("invalid PROMO_CODES: %w", err)
	}
	c.promos = promos
	return nil
}
