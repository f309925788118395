package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

type testConfig struct {
	Port     int             `env:"TEST_CFG_PORT" envDefault:"8080"`
	LogLevel string          `env:"TEST_CFG_LOG_LEVEL" envDefault:"info"`
	Currency currency.Unit   `env:"TEST_CFG_CURRENCY" envDefault:"USD"`
	TaxRate  decimal.Decimal `env:"TEST_CFG_TAX_RATE" envDefault:"0.08"`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, currency.USD, cfg.Currency)
	assert.True(t, decimal.RequireFromString("0.08").Equal(cfg.TaxRate))
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("TEST_CFG_PORT", "9090")
	t.Setenv("TEST_CFG_CURRENCY", "EUR")
	t.Setenv("TEST_CFG_TAX_RATE", "0.2")

	var cfg testConfig
	err := Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, currency.EUR, cfg.Currency)
	assert.Equal(t, "0.2", cfg.TaxRate.String())
}

func TestLoad_InvalidCurrency(t *testing.T) {
	t.Setenv("TEST_CFG_CURRENCY", "DOLLARS")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_InvalidDecimal(t *testing.T) {
	t.Setenv("TEST_CFG_TAX_RATE", "eight percent")

	var cfg testConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

type requiredConfig struct {
	APIKey string `env:"TEST_CFG_API_KEY,required"`
}

func TestLoad_RequiredFieldMissing(t *testing.T) {
	var cfg requiredConfig
	err := Load(&cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
