package checkout

import (
	"context"

	"github.com/MSP-Team3/kyeol-storefront/internal/domain"
)

// CommerceAPI is the slice of the commerce client the checkout flow depends
// on. Implementations must return absence-classified errors for null lookups
// so callers can tell a stale token from a broken upstream.
type CommerceAPI interface {
	CheckoutFind(ctx context.Context, id string) (*domain.Checkout, error)
	CheckoutCreate(ctx context.Context, channel string) (*domain.Checkout, error)
	CheckoutLinesAdd(ctx context.Context, id, variantID string) (*domain.Checkout, error)
	CheckoutLinesDelete(ctx context.Context, id string, lineIDs []string) (*domain.Checkout, error)
	CheckoutCustomerAttach(ctx context.Context, id, bearer string) error
	CurrentUser(ctx context.Context, bearer string) (*domain.User, error)
}

// ViewCache stores rendered checkout views keyed by checkout ID.
type ViewCache interface {
	Get(ctx context.Context, id string) (*domain.Checkout, error)
	Set(ctx context.Context, checkout *domain.Checkout) error
	Invalidate(ctx context.Context, id string) error
}

// EventSink publishes checkout lifecycle events. Publishing is best effort;
// implementations log their own failures and never block the request path on
// broker errors beyond the producer timeout.
type EventSink interface {
	CheckoutCreated(ctx context.Context, checkout *domain.Checkout) error
	LineAdded(ctx context.Context, checkout *domain.Checkout, variantID string) error
	LinesDeleted(ctx context.Context, checkout *domain.Checkout, lineIDs []string) error
	CustomerAttached(ctx context.Context, checkoutID, userID string) error
}
