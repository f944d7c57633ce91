package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/MSP-Team3/kyeol-storefront/pkg/errors"

	"github.com/MSP-Team3/kyeol-storefront/internal/domain"
)

const keyPrefix = "checkout:view:"

// Config holds Redis connection configuration.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewClient creates a Redis client and verifies the connection.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// CheckoutCache is a short-lived Redis cache of checkout views. The commerce
// API stays authoritative; entries exist only to absorb repeated reads
// between mutations and expire on their own.
type CheckoutCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCheckoutCache(client *redis.Client, ttl time.Duration) *CheckoutCache {
	return &CheckoutCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a cached checkout view. A miss is a not-found absence.
func (c *CheckoutCache) Get(ctx context.Context, id string) (*domain.Checkout, error) {
	data, err := c.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("checkout view", id)
		}
		return nil, fmt.Errorf("redis get checkout view: %w", err)
	}

	var checkout domain.Checkout
	if err := json.Unmarshal(data, &checkout); err != nil {
		return nil, fmt.Errorf("unmarshal checkout view: %w", err)
	}

	return &checkout, nil
}

// Set stores a checkout view with the configured TTL.
func (c *CheckoutCache) Set(ctx context.Context, checkout *domain.Checkout) error {
	data, err := json.Marshal(checkout)
	if err != nil {
		return fmt.Errorf("marshal checkout view: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+checkout.ID, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set checkout view: %w", err)
	}

	return nil
}

// Invalidate drops the cached view after a mutation.
func (c *CheckoutCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("redis del checkout view: %w", err)
	}

	return nil
}
