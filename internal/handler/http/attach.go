package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	apperrors "github.com/MSP-Team3/kyeol-storefront/pkg/errors"
	"github.com/MSP-Team3/kyeol-storefront/pkg/httputil"
	"github.com/MSP-Team3/kyeol-storefront/pkg/logger"

	"github.com/MSP-Team3/kyeol-storefront/internal/auth"
	"github.com/MSP-Team3/kyeol-storefront/internal/checkout"
	"github.com/MSP-Team3/kyeol-storefront/internal/domain"
)

// AttachHandler reconciles anonymous checkouts with signed-in customers.
type AttachHandler struct {
	sessions       *auth.Sessions
	coordinator    *checkout.Coordinator
	store          *checkout.IdentityStore
	api            checkout.CommerceAPI
	cache          checkout.ViewCache
	defaultChannel string
	logger         *slog.Logger
}

// NewAttachHandler creates a new attach HTTP handler.
func NewAttachHandler(
	sessions *auth.Sessions,
	coordinator *checkout.Coordinator,
	store *checkout.IdentityStore,
	api checkout.CommerceAPI,
	cache checkout.ViewCache,
	defaultChannel string,
	logger *slog.Logger,
) *AttachHandler {
	return &AttachHandler{
		sessions:       sessions,
		coordinator:    coordinator,
		store:          store,
		api:            api,
		cache:          cache,
		defaultChannel: defaultChannel,
		logger:         logger,
	}
}

// AttachRequest optionally names the checkout to attach. When absent, the
// channel's cookie decides.
type AttachRequest struct {
	CheckoutID string `json:"checkout_id"`
	Channel    string `json:"channel"`
}

// Attach handles POST /api/v1/checkout/attach-customer
//
// Every outcome is reported with HTTP 200; callers inspect the body. A
// skipped attach (no cookie, no session, stale checkout) is normal control
// flow, not a request failure.
func (h *AttachHandler) Attach(w http.ResponseWriter, r *http.Request) {
	var req AttachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.WriteValidationError(w, err)
		return
	}

	channel := req.Channel
	if channel == "" {
		channel = h.defaultChannel
	}
	token := req.CheckoutID
	if token == "" {
		token = h.store.Read(r, channel)
	}

	bearer := h.bearer(w, r)
	httputil.WriteJSON(w, http.StatusOK, h.coordinator.Attach(r.Context(), bearer, token))
}

// CheckoutPageResponse is the payload for the checkout page: the current
// view plus the result of the automatic attach attempt.
type CheckoutPageResponse struct {
	Checkout *domain.Checkout `json:"checkout"`
	Attach   checkout.Outcome `json:"attach"`
}

// CheckoutPage handles GET /api/v1/checkout
//
// Rendering the checkout page triggers at most one attach attempt, so a
// shopper who signed in elsewhere picks up their cart the moment they reach
// checkout.
func (h *AttachHandler) CheckoutPage(w http.ResponseWriter, r *http.Request) {
	channel := h.channelOr(r.URL.Query().Get("channel"))
	token := h.store.Read(r, channel)
	bearer := h.bearer(w, r)

	page := checkout.NewPageAttach(h.coordinator)
	outcome := page.Attempt(r.Context(), bearer, token)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CheckoutPageResponse{
		Checkout: h.view(r, token, channel),
		Attach:   outcome,
	}})
}

func (h *AttachHandler) channelOr(channel string) string {
	if channel == "" {
		return h.defaultChannel
	}
	return channel
}

// bearer resolves the request's access token, treating a missing session as
// anonymous rather than an error.
func (h *AttachHandler) bearer(w http.ResponseWriter, r *http.Request) string {
	bearer, err := h.sessions.Bearer(r.Context(), w, auth.NewRequestAuth(r))
	if err != nil {
		if !apperrors.IsAbsence(err) {
			logger.WithContext(r.Context(), h.logger).WarnContext(r.Context(), "session refresh failed",
				slog.String("error", err.Error()),
			)
		}
		return ""
	}
	return bearer
}

// view fetches the checkout for the page, degrading to an empty cart the
// same way the cart read path does. The cache is read after the attach ran,
// so an attach that just landed is reflected.
func (h *AttachHandler) view(r *http.Request, token, channel string) *domain.Checkout {
	if token == "" {
		return emptyCart(channel)
	}
	if view, err := h.cache.Get(r.Context(), token); err == nil {
		return view
	}
	co, err := h.api.CheckoutFind(r.Context(), token)
	if err != nil {
		if !apperrors.IsAbsence(err) {
			logger.WithContext(r.Context(), h.logger).ErrorContext(r.Context(), "checkout page read degraded to empty",
				slog.String("error", err.Error()),
			)
		}
		return emptyCart(channel)
	}
	if err := h.cache.Set(r.Context(), co); err != nil {
		logger.WithContext(r.Context(), h.logger).WarnContext(r.Context(), "failed to cache checkout view",
			slog.String("checkout_id", co.ID),
			slog.String("error", err.Error()),
		)
	}
	return co
}
