package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

const serviceName = "storefront"

// RouterConfig carries the HTTP-level options of the router.
type RouterConfig struct {
	PprofCIDRs      []string
	CORSOrigins     []string
	CatalogCacheTTL time.Duration
	RequestTimeout  time.Duration

	// ShopperRateLimit applies to every cart and wishlist call,
	// PromoRateLimit additionally to promo code attempts.
	ShopperRateLimit middleware.RateLimitConfig
	PromoRateLimit   middleware.RateLimitConfig
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	cartService *service.CartService,
	wishlistService *service.WishlistService,
	catalog CatalogReader,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	cartHandler := NewCartHandler(cartService, logger)
	wishlistHandler := NewWishlistHandler(wishlistService, logger)
	catalogHandler := NewCatalogHandler(catalog, logger)

	cartLimit, wishlistLimit, promoLimit := cfg.ShopperRateLimit, cfg.ShopperRateLimit, cfg.PromoRateLimit
	cartLimit.Name, wishlistLimit.Name, promoLimit.Name = "cart", "wishlist", "promo"

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(int(cfg.CatalogCacheTTL.Seconds())))

			r.Get("/categories", catalogHandler.ListCategories)
			r.Get("/products", catalogHandler.ListProducts)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(middleware.RequireUserID)
			r.Use(middleware.RateLimit(cartLimit, logger))

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Post("/items/{itemId}/increase", cartHandler.Item(increase))
			r.Post("/items/{itemId}/decrease", cartHandler.Item(decrease))
			r.Post("/items/{itemId}/save-for-later", cartHandler.Item(saveForLater))
			r.Delete("/items/{itemId}", cartHandler.Item(removeItem))

			r.Post("/saved/{itemId}/move-to-cart", cartHandler.Item(moveToCart))
			r.Delete("/saved/{itemId}", cartHandler.Item(removeSaved))

			r.With(middleware.RateLimit(promoLimit, logger)).Post("/promo", cartHandler.ApplyPromo)
			r.Post("/checkout", cartHandler.Checkout)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Use(middleware.NoStore)
			r.Use(middleware.RequireUserID)
			r.Use(middleware.RateLimit(wishlistLimit, logger))

			r.Get("/", wishlistHandler.List)
			r.Delete("/", wishlistHandler.Clear)
			r.Post("/{productId}", wishlistHandler.Add)
			r.Delete("/{productId}", wishlistHandler.Remove)
		})
	})

	return r
}
