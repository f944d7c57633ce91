package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/MSP-Team3/kyeol-storefront/pkg/errors"
	"github.com/MSP-Team3/kyeol-storefront/pkg/logger"

	"github.com/MSP-Team3/kyeol-storefront/internal/domain"
)

// Resolver turns a possibly stale checkout token into a live checkout. A
// token that no longer resolves must never dead-end the shopper, so every
// failed lookup falls through to creating a replacement checkout.
type Resolver struct {
	api    CommerceAPI
	events EventSink
	logger *slog.Logger
}

func NewResolver(api CommerceAPI, events EventSink, logger *slog.Logger) *Resolver {
	return &Resolver{
		api:    api,
		events: events,
		logger: logger,
	}
}

// FindOrCreate resolves the token to its checkout, creating a fresh one when
// the token is empty, stale, or the lookup fails for any reason. Only
// creation failures surface to the caller.
//
// Two concurrent requests holding the same stale token can both fall through
// and create separate checkouts; the last cookie write wins and the orphan
// expires upstream.
func (r *Resolver) FindOrCreate(ctx context.Context, channel, token string) (*domain.Checkout, error) {
	log := logger.WithContext(ctx, r.logger)

	if token != "" {
		checkout, err := r.api.CheckoutFind(ctx, token)
		if err == nil {
			return checkout, nil
		}
		if apperrors.IsAbsence(err) {
			log.InfoContext(ctx, "checkout token is stale, creating replacement",
				slog.String("channel", channel),
			)
		} else {
			log.ErrorContext(ctx, "checkout lookup failed, creating replacement",
				slog.String("channel", channel),
				slog.String("error", err.Error()),
			)
		}
	}

	checkout, err := r.api.CheckoutCreate(ctx, channel)
	if err != nil {
		return nil, fmt.Errorf("create checkout for channel %q: %w", channel, err)
	}
	if checkout == nil || checkout.ID == "" {
		return nil, apperrors.Internal(errors.New("checkout create returned no checkout"))
	}

	if err := r.events.CheckoutCreated(ctx, checkout); err != nil {
		log.WarnContext(ctx, "failed to publish checkout created event",
			slog.String("checkout_id", checkout.ID),
			slog.String("error", err.Error()),
		)
	}

	return checkout, nil
}
