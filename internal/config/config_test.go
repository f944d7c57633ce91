package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("COMMERCE_API_URL", "https://shop.example.com/graphql/")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "development", cfg.Environment)
		assert.Equal(t, 8080, cfg.HTTPPort)
		assert.Equal(t, "default-channel", cfg.DefaultChannel)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
		assert.Equal(t, 60, cfg.CheckoutCacheTTL)
	})

	t.Run("missing commerce API URL fails", func(t *testing.T) {
		t.Setenv("COMMERCE_API_URL", "")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("malformed commerce API URL fails", func(t *testing.T) {
		t.Setenv("COMMERCE_API_URL", "not-a-url")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("invalid port fails", func(t *testing.T) {
		t.Setenv("COMMERCE_API_URL", "https://shop.example.com/graphql/")
		t.Setenv("HTTP_PORT", "70000")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("kafka brokers split on comma", func(t *testing.T) {
		t.Setenv("COMMERCE_API_URL", "https://shop.example.com/graphql/")
		t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	})
}

func TestCookieSecure(t *testing.T) {
	tests := []struct {
		name         string
		publicURL    string
		platformHost string
		want         bool
	}{
		{"plain http", "http://localhost:8080", "", false},
		{"https public URL", "https://shop.example.com", "", true},
		{"platform host behind TLS proxy", "http://internal:8080", "shop.fly.dev", true},
		{"both", "https://shop.example.com", "shop.fly.dev", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{PublicURL: tt.publicURL, PlatformHost: tt.platformHost}
			assert.Equal(t, tt.want, cfg.CookieSecure())
		})
	}
}
