package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/MSP-Team3/kyeol-storefront/pkg/errors"
	"github.com/MSP-Team3/kyeol-storefront/pkg/httputil"
	"github.com/MSP-Team3/kyeol-storefront/pkg/logger"
	"github.com/MSP-Team3/kyeol-storefront/pkg/validator"

	"github.com/MSP-Team3/kyeol-storefront/internal/checkout"
	"github.com/MSP-Team3/kyeol-storefront/internal/domain"
)

// CartHandler handles the shopper-facing cart endpoints. The cart itself
// lives in the commerce API; the handler's job is keeping the cookie, the
// checkout and the cached view in step.
type CartHandler struct {
	store          *checkout.IdentityStore
	resolver       *checkout.Resolver
	gateway        *checkout.Gateway
	api            checkout.CommerceAPI
	cache          checkout.ViewCache
	defaultChannel string
	logger         *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(
	store *checkout.IdentityStore,
	resolver *checkout.Resolver,
	gateway *checkout.Gateway,
	api checkout.CommerceAPI,
	cache checkout.ViewCache,
	defaultChannel string,
	logger *slog.Logger,
) *CartHandler {
	return &CartHandler{
		store:          store,
		resolver:       resolver,
		gateway:        gateway,
		api:            api,
		cache:          cache,
		defaultChannel: defaultChannel,
		logger:         logger,
	}
}

// AddToCartRequest is the JSON request body for adding a variant to the cart.
type AddToCartRequest struct {
	Channel   string `json:"channel"`
	VariantID string `json:"variant_id" validate:"required"`
}

// AddToCartResponse reports the checkout the line landed in. LineQuantity is
// the quantity now held for the added variant; the commerce API merges
// repeated adds of the same variant into one line.
type AddToCartResponse struct {
	Success       bool   `json:"success"`
	CheckoutID    string `json:"checkout_id"`
	TotalQuantity int    `json:"total_quantity"`
	LineQuantity  int    `json:"line_quantity"`
}

// channelOr returns the channel from the request, or the configured default.
func (h *CartHandler) channelOr(channel string) string {
	if channel == "" {
		return h.defaultChannel
	}
	return channel
}

// AddToCart handles POST /api/v1/cart/add
//
// The cookie is written before the line mutation runs: even if the add
// fails, the shopper keeps the checkout that was resolved for them.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	channel := h.channelOr(req.Channel)

	token := h.store.Read(r, channel)
	co, err := h.resolver.FindOrCreate(r.Context(), channel, token)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	h.store.Write(w, channel, co.ID)

	updated, err := h.gateway.AddLine(r.Context(), co.ID, req.VariantID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	resp := AddToCartResponse{
		Success:       true,
		CheckoutID:    updated.ID,
		TotalQuantity: updated.TotalQuantity,
	}
	if line := updated.FindLine(req.VariantID); line != nil {
		resp.LineQuantity = line.Quantity
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: resp})
}

// GetCart handles GET /api/v1/cart
//
// The read path degrades to an empty cart on any failure: a shopper with a
// stale cookie, or one visiting while the commerce API is down, sees an
// empty cart rather than an error page.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	channel := h.channelOr(r.URL.Query().Get("channel"))

	token := h.store.Read(r, channel)
	if token == "" {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: emptyCart(channel)})
		return
	}

	if view, err := h.cache.Get(r.Context(), token); err == nil {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: view})
		return
	}

	co, err := h.api.CheckoutFind(r.Context(), token)
	if err != nil {
		if !apperrors.IsAbsence(err) {
			logger.WithContext(r.Context(), h.logger).ErrorContext(r.Context(), "cart read degraded to empty",
				slog.String("error", err.Error()),
			)
		}
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: emptyCart(channel)})
		return
	}

	if err := h.cache.Set(r.Context(), co); err != nil {
		logger.WithContext(r.Context(), h.logger).WarnContext(r.Context(), "failed to cache checkout view",
			slog.String("checkout_id", co.ID),
			slog.String("error", err.Error()),
		)
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: co})
}

// DeleteLine handles DELETE /api/v1/cart/lines/{lineID}
func (h *CartHandler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	channel := h.channelOr(r.URL.Query().Get("channel"))
	lineID := chi.URLParam(r, "lineID")

	token := h.store.Read(r, channel)
	if token == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("no open checkout for channel"), h.logger)
		return
	}

	updated, err := h.gateway.DeleteLines(r.Context(), token, []string{lineID})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: updated})
}

// emptyCart is the view served when the shopper has no live checkout.
func emptyCart(channel string) *domain.Checkout {
	return &domain.Checkout{
		Channel: channel,
		Lines:   []domain.Line{},
	}
}
