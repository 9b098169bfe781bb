package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/api/controllers"
	"storefront/api/middleware"
	"storefront/internal/cart"
	"storefront/internal/catalog"
	checkoutsvc "storefront/internal/checkout"
	"storefront/internal/identity"
	"storefront/internal/orders"
	"storefront/pkg/auth/session"
	"storefront/pkg/config"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"
	"storefront/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	mongoP controllers.Pinger,
	redisClient *redis.Client,
	sessionManager session.AccessSessionChecker,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
	identityService identity.Service,
	catalogService catalog.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(httpMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, mongoP, redisClient))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit("login", redisClient, cfg.RateLimit, logg)).Post("/login", controllers.AuthLogin(identityService, logg))
		r.With(middleware.AuthRateLimit("register", redisClient, cfg.RateLimit, logg)).Post("/register", controllers.AuthRegister(identityService, logg))
		r.Post("/refresh", controllers.AuthRefresh(identityService, logg))
	})

	// Public catalog browsing needs no credentials.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(catalogService, logg))
		r.Get("/{productId}", controllers.ProductDetail(catalogService, logg))
	})
	r.Get("/api/v1/categories", controllers.CategoryList(catalogService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, identityService, logg))
		r.Use(middleware.RateLimit(redisClient, cfg.RateLimit, logg))
		r.Use(middleware.Idempotency(redisClient, cfg.Idempotency.TTL, logg))

		r.Post("/auth/logout", controllers.AuthLogout(identityService, logg))
		r.Get("/auth/me", controllers.AuthMe(identityService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{productId}", controllers.CartSetQuantity(cartService, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(checkoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(ordersService, logg))
			r.Get("/stream", controllers.OrderStream(ordersService, false, logg))
			r.Get("/{orderId}", controllers.OrderDetail(ordersService, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(ordersService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, identityService, logg))
		r.Use(middleware.RequireAdmin(logg))
		r.Use(middleware.RateLimit(redisClient, cfg.RateLimit, logg))
		r.Use(middleware.Idempotency(redisClient, cfg.Idempotency.TTL, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(ordersService, logg))
			r.Get("/stream", controllers.OrderStream(ordersService, true, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderSetStatus(ordersService, logg))
			r.Patch("/{orderId}/estimated-delivery", controllers.AdminOrderSetEstimatedDelivery(ordersService, logg))
			r.Delete("/{orderId}", controllers.AdminOrderDelete(ordersService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.AdminProductCreate(catalogService, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(catalogService, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(catalogService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.AdminCategoryCreate(catalogService, logg))
			r.Delete("/{categoryId}", controllers.AdminCategoryDelete(catalogService, logg))
		})
	})

	return r
}
