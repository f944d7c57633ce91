package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/MSP-Team3/kyeol-storefront/pkg/httputil"
	"github.com/MSP-Team3/kyeol-storefront/pkg/pagination"

	"github.com/MSP-Team3/kyeol-storefront/internal/domain"
)

// ProductLister is the catalog slice of the commerce client.
type ProductLister interface {
	Products(ctx context.Context, channel string, params pagination.Params) (pagination.Connection[domain.Product], error)
}

// ProductHandler serves the channel catalog.
type ProductHandler struct {
	api            ProductLister
	defaultChannel string
	logger         *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(api ProductLister, defaultChannel string, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		api:            api,
		defaultChannel: defaultChannel,
		logger:         logger,
	}
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	channel := r.URL.Query().Get("channel")
	if channel == "" {
		channel = h.defaultChannel
	}

	conn, err := h.api.Products(r.Context(), channel, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: conn})
}
