package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/config"
	"github.com/utafrali/storefront/internal/event"
	handler "github.com/utafrali/storefront/internal/handler/http"
	"github.com/utafrali/storefront/internal/repository"
	"github.com/utafrali/storefront/internal/repository/memory"
	redisrepo "github.com/utafrali/storefront/internal/repository/redis"
	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/database"
	"github.com/utafrali/storefront/pkg/health"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
	"github.com/utafrali/storefront/pkg/tracing"
)

const serviceName = "storefront"

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	producer   *pkgkafka.Producer
	tracing    tracing.ShutdownFunc
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRate,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	a.tracing = shutdownTracing

	healthHandler := health.NewHandler()

	// Storage.
	var (
		cartRepo     repository.CartRepository
		wishlistRepo repository.WishlistRepository
	)
	cartTTL := cfg.CartTTLDuration()

	switch cfg.Store {
	case config.StoreRedis:
		redisCfg := database.DefaultRedisConfig()
		redisCfg.Addr = cfg.RedisAddr
		redisCfg.Password = cfg.RedisPass
		redisCfg.DB = cfg.RedisDB

		rdb, err := database.NewRedisClient(ctx, redisCfg)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("connect to redis: %w", err), a.tracing(ctx))
		}
		a.rdb = rdb
		logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)

		if err := prometheus.Register(database.NewPoolStatsCollector(rdb, serviceName)); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				logger.Warn("redis pool metrics not registered", slog.String("error", err.Error()))
			}
		}
		healthHandler.Register("redis", database.RedisChecker(rdb))

		cartRepo = redisrepo.NewCartRepository(rdb, cartTTL)
		wishlistRepo = redisrepo.NewWishlistRepository(rdb)
	default:
		cartRepo = memory.NewCartRepository(cartTTL)
		wishlistRepo = memory.NewWishlistRepository()
		logger.Info("using in-memory cart store")
	}

	// Events.
	var publisher event.Publisher = event.NopPublisher{}
	if cfg.EventsEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = a.producer
		healthHandler.Register("kafka", a.producer.Ping)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	cat := catalog.New(catalog.Config{
		Latency:         cfg.CatalogLatency,
		SimulateFailure: cfg.CatalogSimulateFailure,
	}, logger)
	eventProducer := event.NewProducer(publisher, logger)
	cartService := service.NewCartService(cartRepo, cat, eventProducer, logger, service.CartConfig{
		TTL:      cartTTL,
		Currency: cfg.Currency.String(),
		Pricing:  cfg.Pricing(),
		Promos:   cfg.Promos(),
		SeedDemo: cfg.SeedDemo,
	})
	wishlistService := service.NewWishlistService(wishlistRepo, cat, logger)
	logger.Info("promo codes loaded", slog.Any("codes", cfg.Promos().Codes()))

	// HTTP router.
	router := handler.NewRouter(cartService, wishlistService, cat, healthHandler, logger, handler.RouterConfig{
		PprofCIDRs:      cfg.PprofCIDRs,
		CORSOrigins:     cfg.CORSOrigins,
		CatalogCacheTTL: cfg.CatalogCacheTTL,
		RequestTimeout:  cfg.RequestTimeout,

		ShopperRateLimit: cfg.ShopperRateLimit(),
		PromoRateLimit:   cfg.PromoRateLimit(),
	})

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if err := a.tracing(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
