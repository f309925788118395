package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8003, cfg.HTTPPort)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 168*time.Hour, cfg.CartTTLDuration())
	assert.Equal(t, currency.USD, cfg.Currency)
	assert.Equal(t, 300*time.Millisecond, cfg.CatalogLatency)
	assert.True(t, cfg.SeedDemo)

	p := cfg.Pricing()
	assert.Equal(t, "0.08", p.TaxRate.String())
	assert.Equal(t, "100", p.FreeShippingThreshold.String())
	assert.Equal(t, "9.99", p.ShippingFee.String())

	assert.Equal(t, 20, cfg.ShopperRateLimit().Burst)
	promo := cfg.PromoRateLimit()
	assert.Equal(t, 10, promo.Burst)
	assert.InDelta(t, 10.0/60, promo.RPS, 1e-9)

	rule, ok := cfg.Promos().Lookup("SAVE10")
	require.True(t, ok)
	assert.Equal(t, "10", rule.Percent.String())
}

func TestLoad_CustomPromosAndPricing(t *testing.T) {
	t.Setenv("PROMO_CODES", "SAVE10:10, WELCOME:15")
	t.Setenv("TAX_RATE", "0.2")
	t.Setenv("CART_CURRENCY", "EUR")
	t.Setenv("CART_STORE", "redis")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"SAVE10", "WELCOME"}, cfg.Promos().Codes())
	assert.Equal(t, "0.2", cfg.Pricing().TaxRate.String())
	assert.Equal(t, currency.EUR, cfg.Currency)
	assert.Equal(t, StoreRedis, cfg.Store)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{"http port", "CART_HTTP_PORT", "0", "invalid HTTP port"},
		{"log level", "LOG_LEVEL", "verbose", "invalid LOG_LEVEL"},
		{"store", "CART_STORE", "postgres", "CART_STORE must be"},
		{"ttl", "CART_TTL_HOURS", "0", "CART_TTL_HOURS must be positive"},
		{"tax rate", "TAX_RATE", "1.5", "TAX_RATE must be in"},
		{"shipping fee", "SHIPPING_FEE", "-1", "SHIPPING_FEE must not be negative"},
		{"promo percent", "PROMO_CODES", "SAVE10:150", "invalid PROMO_CODES"},
		{"promo format", "PROMO_CODES", "SAVE10", "invalid PROMO_CODES"},
		{"rate limit", "RATE_LIMIT_RPS", "-1", "rate limits must not be negative"},
		{"promo attempts", "PROMO_ATTEMPTS_PER_MINUTE", "-5", "rate limits must not be negative"},
		{"sample rate", "OTEL_SAMPLE_RATE", "2.0", "OTEL_SAMPLE_RATE must be between 0.0 and 1.0"},
		{"currency", "CART_CURRENCY", "DOLLARS", "parse config"},
		{"latency", "CATALOG_LATENCY", "soon", "parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
