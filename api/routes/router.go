package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drapeline/drapeline-backend/api/controllers"
	"github.com/drapeline/drapeline-backend/api/middleware"
	cartsvc "github.com/drapeline/drapeline-backend/internal/cart"
	"github.com/drapeline/drapeline-backend/internal/commission"
	"github.com/drapeline/drapeline-backend/internal/coupons"
	"github.com/drapeline/drapeline-backend/internal/orders"
	"github.com/drapeline/drapeline-backend/internal/pricing"
	"github.com/drapeline/drapeline-backend/internal/reports"
	"github.com/drapeline/drapeline-backend/pkg/config"
	"github.com/drapeline/drapeline-backend/pkg/db"
	"github.com/drapeline/drapeline-backend/pkg/enums"
	"github.com/drapeline/drapeline-backend/pkg/logger"
	pkgredis "github.com/drapeline/drapeline-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	gatherer prometheus.Gatherer,
	pricingService pricing.Service,
	cartService cartsvc.Service,
	couponService coupons.Service,
	ordersService orders.Service,
	commissionService commission.Service,
	reportsService reports.Service,
) http.Handler {
	// A nil redis client must stay nil behind the middleware interfaces,
	// not become a typed non-nil interface value.
	var idemStore pkgredis.IdempotencyStore
	var limiterStore middleware.RateLimiterStore
	if redisClient != nil {
		idemStore = redisClient
		limiterStore = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	checkoutPolicy := middleware.NewRateLimitPolicy(
		"checkout",
		cfg.RateLimit.CheckoutWindow,
		cfg.RateLimit.CheckoutIPLimit,
		cfg.RateLimit.CheckoutUserLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readinessDeps(dbP, redisClient)))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// One mount for the whole versioned API. Idempotent replay protection
	// wraps everything; auth strength varies per group below.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idemStore, logg))

		// Storefront surface. Guests ride on the cart session header; a
		// bearer token upgrades the same routes to the user's cart.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))

			r.Post("/pricing/quote", controllers.PriceQuote(pricingService, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(cartService, logg))
				r.Post("/items", controllers.CartAddItem(cartService, logg))
				r.Put("/items/{itemID}", controllers.CartUpdateItem(cartService, logg))
				r.Delete("/items/{itemID}", controllers.CartRemoveItem(cartService, logg))
				r.Delete("/", controllers.CartClear(cartService, logg))
				r.Post("/merge", controllers.CartMerge(cartService, logg))
			})

			r.Post("/coupons/preview", controllers.CouponPreview(couponService, cartService, logg))
		})

		// Money-moving routes require a real principal.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.With(middleware.RateLimit(checkoutPolicy, limiterStore, logg)).
				Post("/checkout", controllers.Checkout(ordersService, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(reportsService, logg))
				r.Get("/number/{orderNumber}", controllers.OrderFetchByNumber(ordersService, logg))
				r.Get("/{orderID}", controllers.OrderFetch(ordersService, logg))
				r.Post("/{orderID}/cancel", controllers.OrderCancel(ordersService, logg))
			})
		})

		// Vendor surface: projected reads only, never cross-vendor
		// financials.
		r.Route("/vendor", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(string(enums.RoleVendor), logg))
			r.Use(middleware.VendorContext(logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.VendorOrderList(reportsService, logg))
				r.Get("/{orderID}", controllers.VendorOrderFetch(ordersService, logg))
			})
			r.Route("/commissions", func(r chi.Router) {
				r.Get("/", controllers.VendorCommissionList(commissionService, logg))
				r.Get("/summary", controllers.VendorPayoutSummary(commissionService, logg))
			})
			r.Get("/reports/stats", controllers.VendorStats(reportsService, logg))
		})

		// Admin surface.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(string(enums.RoleAdmin), logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrderList(reportsService, logg))
				r.Post("/{orderID}/status", controllers.AdminOrderStatusUpdate(ordersService, logg))
			})
			r.Route("/commissions", func(r chi.Router) {
				r.Post("/{commissionID}/payable", controllers.AdminCommissionMarkPayable(commissionService, logg))
				r.Post("/{commissionID}/paid", controllers.AdminCommissionMarkPaid(commissionService, logg))
			})
			r.Get("/reports/stats", controllers.AdminStats(reportsService, logg))
		})
	})

	return r
}

func readinessDeps(dbP db.Pinger, redisClient *pkgredis.Client) map[string]controllers.Pinger {
	deps := map[string]controllers.Pinger{}
	if dbP != nil {
		deps["postgres"] = dbP
	}
	if redisClient != nil {
		deps["redis"] = redisClient
	}
	return deps
}
