package checkout

import (
	"context"
	"log/slog"

	"github.com/MSP-Team3/kyeol-storefront/pkg/logger"

	"github.com/MSP-Team3/kyeol-storefront/internal/domain"
)

// Gateway funnels all line mutations through one place so logging, cache
// invalidation and event publishing stay consistent across entry points.
type Gateway struct {
	api    CommerceAPI
	cache  ViewCache
	events EventSink
	logger *slog.Logger
}

func NewGateway(api CommerceAPI, cache ViewCache, events EventSink, logger *slog.Logger) *Gateway {
	return &Gateway{
		api:    api,
		cache:  cache,
		events: events,
		logger: logger,
	}
}

// AddLine appends a single-quantity line for the variant and returns the
// updated checkout.
func (g *Gateway) AddLine(ctx context.Context, checkoutID, variantID string) (*domain.Checkout, error) {
	log := logger.WithContext(ctx, g.logger)

	checkout, err := g.api.CheckoutLinesAdd(ctx, checkoutID, variantID)
	if err != nil {
		log.ErrorContext(ctx, "failed to add checkout line",
			slog.String("checkout_id", checkoutID),
			slog.String("variant_id", variantID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	g.afterMutation(ctx, checkout)
	if err := g.events.LineAdded(ctx, checkout, variantID); err != nil {
		log.WarnContext(ctx, "failed to publish line added event",
			slog.String("checkout_id", checkout.ID),
			slog.String("error", err.Error()),
		)
	}
	return checkout, nil
}

// DeleteLines removes the given lines and returns the updated checkout.
func (g *Gateway) DeleteLines(ctx context.Context, checkoutID string, lineIDs []string) (*domain.Checkout, error) {
	log := logger.WithContext(ctx, g.logger)

	checkout, err := g.api.CheckoutLinesDelete(ctx, checkoutID, lineIDs)
	if err != nil {
		log.ErrorContext(ctx, "failed to delete checkout lines",
			slog.String("checkout_id", checkoutID),
			slog.Int("line_count", len(lineIDs)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	g.afterMutation(ctx, checkout)
	if err := g.events.LinesDeleted(ctx, checkout, lineIDs); err != nil {
		log.WarnContext(ctx, "failed to publish lines deleted event",
			slog.String("checkout_id", checkout.ID),
			slog.String("error", err.Error()),
		)
	}
	return checkout, nil
}

// afterMutation drops the stale cached view. The next read repopulates it
// from the commerce API.
func (g *Gateway) afterMutation(ctx context.Context, checkout *domain.Checkout) {
	if checkout == nil {
		return
	}
	if err := g.cache.Invalidate(ctx, checkout.ID); err != nil {
		logger.WithContext(ctx, g.logger).WarnContext(ctx, "failed to invalidate checkout view",
			slog.String("checkout_id", checkout.ID),
			slog.String("error", err.Error()),
		)
	}
}
