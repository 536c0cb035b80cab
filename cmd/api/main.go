package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/drapeline/drapeline-backend/api/routes"
	"github.com/drapeline/drapeline-backend/internal/cart"
	"github.com/drapeline/drapeline-backend/internal/catalog"
	"github.com/drapeline/drapeline-backend/internal/commission"
	"github.com/drapeline/drapeline-backend/internal/coupons"
	"github.com/drapeline/drapeline-backend/internal/orders"
	"github.com/drapeline/drapeline-backend/internal/pricing"
	"github.com/drapeline/drapeline-backend/internal/reports"
	"github.com/drapeline/drapeline-backend/internal/shipping"
	"github.com/drapeline/drapeline-backend/internal/tax"
	"github.com/drapeline/drapeline-backend/pkg/config"
	"github.com/drapeline/drapeline-backend/pkg/db"
	"github.com/drapeline/drapeline-backend/pkg/logger"
	"github.com/drapeline/drapeline-backend/pkg/metrics"
	"github.com/drapeline/drapeline-backend/pkg/migrate"
	"github.com/drapeline/drapeline-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	orderMetrics := metrics.NewOrderMetrics(registry)

	gormDB := dbClient.DB()

	catalogService, err := catalog.NewService(catalog.NewRepository(gormDB))
	requireService(logg, "catalog", err)

	pricingService, err := pricing.NewService(pricing.NewRepository(gormDB), catalogService)
	requireService(logg, "pricing", err)

	couponService, err := coupons.NewService(coupons.NewRepository(gormDB), cfg.Coupons.MaxCodesPerOrder)
	requireService(logg, "coupons", err)

	taxCalc := tax.NewFlatRate(cfg.Tax.FlatRateBps)
	shipPolicy := shipping.NewFlatPolicy(int64(cfg.Shipping.FlatRateCents), int64(cfg.Shipping.FreeShippingOverCents))

	cartService, err := cart.NewService(
		cart.NewRepository(gormDB),
		dbClient,
		catalogService,
		pricingService,
		couponService,
		taxCalc,
		shipPolicy,
		logg,
	)
	requireService(logg, "cart", err)

	commissionService, err := commission.NewService(commission.NewRepository(gormDB), catalogService, logg)
	requireService(logg, "commission", err)

	ordersService, err := orders.NewService(
		orders.NewRepository(gormDB),
		dbClient,
		cartService,
		catalogService,
		couponService,
		commissionService,
		taxCalc,
		shipPolicy,
		orderMetrics,
		logg,
	)
	requireService(logg, "orders", err)

	reportsService, err := reports.NewService(reports.NewRepository(gormDB), logg)
	requireService(logg, "reports", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			pricingService,
			cartService,
			couponService,
			ordersService,
			commissionService,
			reportsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	ctx := logg.WithFields(context.Background(), map[string]any{"service": name})
	logg.Error(ctx, "failed to build service", err)
	os.Exit(1)
}
