package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/florale-backend/api/routes"
	"github.com/angelmondragon/florale-backend/internal/builder"
	"github.com/angelmondragon/florale-backend/internal/cart"
	"github.com/angelmondragon/florale-backend/internal/catalog"
	"github.com/angelmondragon/florale-backend/internal/orders"
	"github.com/angelmondragon/florale-backend/pkg/bridge"
	"github.com/angelmondragon/florale-backend/pkg/config"
	"github.com/angelmondragon/florale-backend/pkg/db"
	"github.com/angelmondragon/florale-backend/pkg/instance"
	"github.com/angelmondragon/florale-backend/pkg/logger"
	"github.com/angelmondragon/florale-backend/pkg/metrics"
	"github.com/angelmondragon/florale-backend/pkg/migrate"
	"github.com/angelmondragon/florale-backend/pkg/realtime"
	"github.com/angelmondragon/florale-backend/pkg/redis"
	"github.com/angelmondragon/florale-backend/pkg/snapshot"
)

const shutdownTimeout = 10 * time.Second

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

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(runCtx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	params := routes.RouterParams{
		Config: cfg,
		Logger: logg,
		DB:     dbClient,
	}

	var store snapshot.Store
	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		store = snapshot.NewRedisStore(redisClient, cfg.Storefront.SnapshotTTL)
		params.Redis = redisClient
		params.IdempotencyStore = redisClient
	} else {
		logg.Warn(ctx, "redis not configured, sessions are kept in memory and idempotency checks are off")
		store = snapshot.NewMemoryStore()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewStorefrontMetrics(registry)
	params.Gatherer = registry

	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	params.Catalog = cat

	br := bridge.New(cfg.Storefront.BridgeMode, logg)

	hub := realtime.NewHub(logg, cfg.App.CORSOrigins)
	go hub.Run(ctx)
	params.Realtime = hub

	cartService, err := cart.NewService(store, cat, br, recorder, logg)
	if err != nil {
		return err
	}
	params.Cart = cartService

	builderService, err := builder.NewService(store, cat, cartService, br, recorder, logg)
	if err != nil {
		return err
	}
	params.Builder = builderService

	orderService, err := orders.NewService(orders.ServiceParams{
		Store:        orders.NewStore(cfg.Storefront.DefaultPoint, time.Now),
		Repo:         orders.NewRepository(dbClient.DB()),
		Tx:           dbClient,
		Carts:        cartService,
		Publisher:    hub,
		Metrics:      recorder,
		Logger:       logg,
		DeliveryFee:  cfg.Storefront.DeliveryFee,
		SeedFixtures: cfg.FeatureFlags.SeedFixtures,
		DefaultPoint: cfg.Storefront.DefaultPoint,
	})
	if err != nil {
		return err
	}
	if err := orderService.Bootstrap(ctx); err != nil {
		return err
	}
	params.Orders = orderService

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(params),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
