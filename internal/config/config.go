package config

import (
	"fmt"
	"strings"

	pkgconfig "github.com/MSP-Team3/kyeol-storefront/pkg/config"
)

// Config holds all configuration for the storefront.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// Commerce API. The storefront cannot run without it.
	CommerceAPIURL string `env:"COMMERCE_API_URL,required"`

	// PublicURL is the address shoppers reach the storefront at. Its scheme
	// decides cookie security; hosting platforms that terminate TLS in front
	// of us advertise themselves through PlatformHost instead.
	PublicURL    string `env:"PUBLIC_URL" envDefault:"http://localhost:8080"`
	PlatformHost string `env:"PLATFORM_HOST" envDefault:""`

	// DefaultChannel is the sales channel used when a request names none.
	DefaultChannel string `env:"DEFAULT_CHANNEL" envDefault:"default-channel"`

	// CORS
	AllowedOrigin string `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Checkout view cache TTL in seconds
	CheckoutCacheTTL int `env:"CHECKOUT_CACHE_TTL_SECONDS" envDefault:"60"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Login rate limiting, per client IP
	LoginRateLimit int `env:"LOGIN_RATE_LIMIT_RPS" envDefault:"5"`
	LoginRateBurst int `env:"LOGIN_RATE_LIMIT_BURST" envDefault:"10"`

	// Tracing
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint    string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`
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

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if !strings.HasPrefix(c.CommerceAPIURL, "http://") && !strings.HasPrefix(c.CommerceAPIURL, "https://") {
		return fmt.Errorf("invalid commerce API URL: %s", c.CommerceAPIURL)
	}
	if c.CheckoutCacheTTL < 0 {
		return fmt.Errorf("invalid checkout cache TTL: %d", c.CheckoutCacheTTL)
	}
	return nil
}

// CookieSecure reports whether cookies must carry the Secure attribute. True
// when the public URL is https, or when a hosting platform that terminates
// TLS for us set its host hint.
func (c *Config) CookieSecure() bool {
	return strings.HasPrefix(c.PublicURL, "https://") || c.PlatformHost != ""
}
