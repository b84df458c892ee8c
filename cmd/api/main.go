package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/gamersouq/storefront-backend/api/routes"
	"github.com/gamersouq/storefront-backend/internal/cart"
	"github.com/gamersouq/storefront-backend/internal/checkout"
	"github.com/gamersouq/storefront-backend/internal/promotions"
	stripewebhook "github.com/gamersouq/storefront-backend/internal/webhooks/stripe"
	"github.com/gamersouq/storefront-backend/pkg/config"
	"github.com/gamersouq/storefront-backend/pkg/db"
	"github.com/gamersouq/storefront-backend/pkg/logger"
	"github.com/gamersouq/storefront-backend/pkg/metrics"
	"github.com/gamersouq/storefront-backend/pkg/migrate"
	"github.com/gamersouq/storefront-backend/pkg/redis"
	"github.com/gamersouq/storefront-backend/pkg/stripe"
)

// webhookDedupTTL bounds how long a processed Stripe event id is remembered.
// Stripe retries deliveries for up to three days.
const webhookDedupTTL = 72 * time.Hour

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

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pricingMetrics := metrics.NewPricingMetrics(registry)

	cartStore, err := cart.NewStore(redisClient, cart.Rules{
		FreeShippingThreshold: cfg.Pricing.FreeShippingThreshold,
		FlatShippingFee:       cfg.Pricing.FlatShippingFee,
	}, cfg.Cart.TTL, logg, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	catalogRepo, err := promotions.NewFallbackRepository(
		promotions.NewGormRepository(dbClient.DB()),
		promotions.NewMemoryRepository(promotions.SeedCatalog()...),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create discount catalog", err)
		os.Exit(1)
	}
	promoService, err := promotions.NewService(catalogRepo, logg, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create promotions service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(cartStore, stripeClient, logg, pricingMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, webhookDedupTTL, "stripe")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}
	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Carts:  cartStore,
		Guard:  webhookGuard,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":        cfg.App.Env,
		"addr":       addr,
		"stripe_env": stripeClient.Environment(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:       cfg,
			Logger:       logg,
			DB:           dbClient,
			Redis:        redisClient,
			CartService:  cartStore,
			Promotions:   promoService,
			Catalog:      promoService,
			Checkout:     checkoutService,
			Webhooks:     webhookService,
			StripeClient: stripeClient,
			Registry:     registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
