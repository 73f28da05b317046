package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/campusworks/storefront-checkout/api/routes"
	cartsvc "github.com/campusworks/storefront-checkout/internal/cart"
	checkoutsvc "github.com/campusworks/storefront-checkout/internal/checkout"
	"github.com/campusworks/storefront-checkout/internal/providers"
	"github.com/campusworks/storefront-checkout/pkg/config"
	"github.com/campusworks/storefront-checkout/pkg/logger"
	"github.com/campusworks/storefront-checkout/pkg/metrics"
	"github.com/campusworks/storefront-checkout/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	providerClient, err := providers.New(cfg.Commerce, cfg.Tenant, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create commerce provider client", err)
		os.Exit(1)
	}

	cartStore := cartsvc.NewRedisStore(redisClient, cfg.Tenant.SchoolCode, cfg.Checkout.CartTTL)
	snapshotStore := checkoutsvc.NewRedisSnapshotStore(redisClient, cfg.Tenant.SchoolCode, cfg.Checkout.SessionTTL)
	checkoutMgr, err := checkoutsvc.NewManager(snapshotStore)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout manager", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"tenant": cfg.Tenant.SchoolCode,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, cartStore, checkoutMgr, providerClient, checkoutMetrics),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
