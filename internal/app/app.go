package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"

	"github.com/MSP-Team3/kyeol-storefront/pkg/health"
	"github.com/MSP-Team3/kyeol-storefront/pkg/httpclient"
	pkgkafka "github.com/MSP-Team3/kyeol-storefront/pkg/kafka"
	"github.com/MSP-Team3/kyeol-storefront/pkg/tracing"

	"github.com/MSP-Team3/kyeol-storefront/internal/auth"
	"github.com/MSP-Team3/kyeol-storefront/internal/cache"
	"github.com/MSP-Team3/kyeol-storefront/internal/checkout"
	"github.com/MSP-Team3/kyeol-storefront/internal/commerce"
	"github.com/MSP-Team3/kyeol-storefront/internal/config"
	"github.com/MSP-Team3/kyeol-storefront/internal/event"
	handler "github.com/MSP-Team3/kyeol-storefront/internal/handler/http"
)

// App wires together all dependencies and runs the storefront.
type App struct {
	cfg             *config.Config
	logger          *slog.Logger
	rdb             *redis.Client
	producer        *pkgkafka.Producer
	httpServer      *http.Server
	tracingShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing.
	tracingShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Redis client for the checkout view cache.
	rdb, err := cache.NewClient(ctx, cache.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Commerce API client behind a retrying HTTP client and circuit breaker.
	httpClient := httpclient.New(httpclient.DefaultConfig())
	cbClient := httpclient.NewCircuitBreakerClient(
		httpClient,
		httpclient.DefaultCircuitBreakerConfig("commerce-api"),
		logger,
	)
	api := commerce.New(cfg.CommerceAPIURL, cbClient, logger)

	// Build the dependency graph.
	viewCache := cache.NewCheckoutCache(rdb, time.Duration(cfg.CheckoutCacheTTL)*time.Second)
	events := event.NewProducer(producer, logger)
	store := checkout.NewIdentityStore(cfg.CookieSecure(), logger)
	resolver := checkout.NewResolver(api, events, logger)
	gateway := checkout.NewGateway(api, viewCache, events, logger)
	coordinator := checkout.NewCoordinator(api, viewCache, events, logger)
	sessions := auth.NewSessions(api, cfg.CookieSecure(), logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", producer.Ping)
	healthHandler.Register("commerce-api", func(ctx context.Context) error {
		// While the breaker is open the upstream is already known bad; a
		// probe would only feed the failure count.
		if cbClient.State() == gobreaker.StateOpen {
			return httpclient.ErrCircuitOpen
		}
		return api.Ping(ctx)
	})

	// HTTP router.
	router := handler.NewRouter(handler.RouterConfig{
		Cart:          handler.NewCartHandler(store, resolver, gateway, api, viewCache, cfg.DefaultChannel, logger),
		Attach:        handler.NewAttachHandler(sessions, coordinator, store, api, viewCache, cfg.DefaultChannel, logger),
		Auth:          handler.NewAuthHandler(sessions, logger),
		Products:      handler.NewProductHandler(api, cfg.DefaultChannel, logger),
		Health:        healthHandler,
		AllowedOrigin: cfg.AllowedOrigin,
		LoginRPS:      cfg.LoginRateLimit,
		LoginBurst:    cfg.LoginRateBurst,
	}, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:             cfg,
		logger:          logger,
		rdb:             rdb,
		producer:        producer,
		httpServer:      httpServer,
		tracingShutdown: tracingShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
