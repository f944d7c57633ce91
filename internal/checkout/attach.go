package checkout

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	apperrors "github.com/MSP-Team3/kyeol-storefront/pkg/errors"
	"github.com/MSP-Team3/kyeol-storefront/pkg/logger"
)

// Reason codes explaining why an attach was skipped or how it succeeded.
const (
	ReasonNoCheckoutID     = "no_checkout_id"
	ReasonNotAuthenticated = "not_authenticated"
	ReasonCheckoutNotFound = "checkout_not_found"
	ReasonAlreadyAttached  = "already_attached"
)

// Outcome is the result of one attach attempt. A skipped attempt carries a
// Reason and is not an error; Err is set only for real failures. The attach
// endpoint reports every outcome with HTTP 200 so callers inspect the body,
// never the status.
type Outcome struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
	Err     string `json:"error,omitempty"`
}

// Coordinator binds anonymous checkouts to the customer who signs in. Attach
// is idempotent: running it twice for the same checkout and customer settles
// on the same attached state.
type Coordinator struct {
	api    CommerceAPI
	cache  ViewCache
	events EventSink
	logger *slog.Logger
}

func NewCoordinator(api CommerceAPI, cache ViewCache, events EventSink, logger *slog.Logger) *Coordinator {
	return &Coordinator{
		api:    api,
		cache:  cache,
		events: events,
		logger: logger,
	}
}

// Attach links the checkout identified by token to the customer behind the
// bearer token. Preconditions are re-checked here rather than trusted from
// the caller: the cookie and the session can each go stale independently.
func (c *Coordinator) Attach(ctx context.Context, bearer, token string) Outcome {
	log := logger.WithContext(ctx, c.logger)

	if token == "" {
		return Outcome{Reason: ReasonNoCheckoutID}
	}

	user, err := c.api.CurrentUser(ctx, bearer)
	if err != nil {
		if apperrors.IsAbsence(err) {
			return Outcome{Reason: ReasonNotAuthenticated}
		}
		log.ErrorContext(ctx, "attach aborted: customer lookup failed",
			slog.String("error", err.Error()),
		)
		return Outcome{Err: err.Error()}
	}

	log = logger.WithContext(logger.WithUserID(ctx, user.ID), c.logger)

	checkout, err := c.api.CheckoutFind(ctx, token)
	if err != nil {
		if apperrors.IsAbsence(err) {
			return Outcome{Reason: ReasonCheckoutNotFound}
		}
		log.ErrorContext(ctx, "attach aborted: checkout lookup failed",
			slog.String("error", err.Error()),
		)
		return Outcome{Err: err.Error()}
	}

	if checkout.Attached() {
		return Outcome{Success: true, Reason: ReasonAlreadyAttached}
	}

	if err := c.api.CheckoutCustomerAttach(ctx, checkout.ID, bearer); err != nil {
		// A concurrent attach can win between our find and our mutation.
		// The commerce API reports that as a payload error, but the state
		// we wanted already holds.
		if isAlreadyAttached(err) {
			return Outcome{Success: true, Reason: ReasonAlreadyAttached}
		}
		log.ErrorContext(ctx, "customer attach failed",
			slog.String("checkout_id", checkout.ID),
			slog.String("error", err.Error()),
		)
		return Outcome{Err: err.Error()}
	}

	if err := c.cache.Invalidate(ctx, checkout.ID); err != nil {
		log.WarnContext(ctx, "failed to invalidate checkout view",
			slog.String("checkout_id", checkout.ID),
			slog.String("error", err.Error()),
		)
	}
	if err := c.events.CustomerAttached(ctx, checkout.ID, user.ID); err != nil {
		log.WarnContext(ctx, "failed to publish customer attached event",
			slog.String("checkout_id", checkout.ID),
			slog.String("error", err.Error()),
		)
	}

	log.InfoContext(ctx, "checkout attached to customer",
		slog.String("checkout_id", checkout.ID),
	)
	return Outcome{Success: true}
}

// isAlreadyAttached matches the commerce API's payload error for a checkout
// that already belongs to a customer. The API exposes no stable code for it,
// only the message text.
func isAlreadyAttached(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "already attached")
}

// PageAttach gives a single page render exactly one attach attempt, no matter
// how many times its auth state re-evaluates while the attempt is in flight.
// Build one per page request and share it across that request's goroutines.
type PageAttach struct {
	coordinator *Coordinator

	mu        sync.Mutex
	attempted bool
	outcome   Outcome
}

func NewPageAttach(coordinator *Coordinator) *PageAttach {
	return &PageAttach{coordinator: coordinator}
}

// Attempt runs the attach once; later calls return the recorded outcome
// without touching the commerce API, even when the first attempt failed.
func (p *PageAttach) Attempt(ctx context.Context, bearer, token string) Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.attempted {
		return p.outcome
	}
	p.attempted = true
	p.outcome = p.coordinator.Attach(ctx, bearer, token)
	return p.outcome
}
