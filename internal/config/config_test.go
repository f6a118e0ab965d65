package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "KES", cfg.Pricing.Currency)
	assert.Equal(t, int64(500000), cfg.Pricing.FreeDeliveryThreshold)
	assert.Equal(t, int64(50000), cfg.Pricing.StandardDeliveryFee)
	assert.True(t, cfg.Pricing.TaxRate.IsZero())
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 15*time.Minute, cfg.Redis.CartTTL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PRICING_TAX_RATE", "0.16")
	t.Setenv("PRICING_FREE_DELIVERY_THRESHOLD", "900000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REDIS_CART_TTL", "not-a-duration")
	t.Setenv("DATABASE_MIGRATE_ON_START", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, decimal.RequireFromString("0.16").Equal(cfg.Pricing.TaxRate))
	assert.Equal(t, int64(900000), cfg.Pricing.FreeDeliveryThreshold)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 15*time.Minute, cfg.Redis.CartTTL)
	assert.False(t, cfg.Database.MigrateOnStart)
}

func TestLoad_InvalidTaxRate(t *testing.T) {
	t.Setenv("PRICING_TAX_RATE", "sixteen percent")

	_, err := Load()
	assert.ErrorContains(t, err, "PRICING_TAX_RATE")
}

func TestLoad_StrictNumericSettings(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PRICING_FREE_DELIVERY_THRESHOLD", "5000.00"},
		{"PRICING_FREE_DELIVERY_THRESHOLD", "-1"},
		{"PRICING_STANDARD_DELIVERY_FEE", "fifty"},
		{"BREAKER_FAILURE_THRESHOLD", "-3"},
		{"BREAKER_MAX_REQUESTS", "4294967296"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestLoad_BreakerFromEnv(t *testing.T) {
	t.Setenv("BREAKER_MAX_REQUESTS", "3")
	t.Setenv("BREAKER_FAILURE_THRESHOLD", "10")
	t.Setenv("PRICING_STANDARD_DELIVERY_FEE", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, uint32(3), cfg.Breaker.MaxRequests)
	assert.Equal(t, uint32(10), cfg.Breaker.FailureThreshold)
	assert.Equal(t, int64(0), cfg.Pricing.StandardDeliveryFee)
}
