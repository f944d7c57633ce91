package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MSP-Team3/kyeol-storefront/pkg/health"
	"github.com/MSP-Team3/kyeol-storefront/pkg/middleware"
)

// RouterConfig carries the handlers and knobs the router assembles.
type RouterConfig struct {
	Cart          *CartHandler
	Attach        *AttachHandler
	Auth          *AuthHandler
	Products      *ProductHandler
	Health        *health.Handler
	AllowedOrigin string
	LoginRPS      int
	LoginBurst    int
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigin))

	// Health check endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cfg.Cart.GetCart)
			r.Post("/add", cfg.Cart.AddToCart)
			r.Delete("/lines/{lineID}", cfg.Cart.DeleteLine)
		})

		r.Get("/checkout", cfg.Attach.CheckoutPage)
		r.Post("/checkout/attach-customer", cfg.Attach.Attach)

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimit(cfg.LoginRPS, cfg.LoginBurst, logger)).
				Post("/login", cfg.Auth.Login)
			r.Post("/logout", cfg.Auth.Logout)
			r.Get("/me", cfg.Auth.Me)
		})

		r.Get("/products", cfg.Products.List)
	})

	return r
}
