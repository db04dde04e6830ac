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

	"github.com/bettersale/bettersale-backend/api/handlers"
	"github.com/bettersale/bettersale-backend/api/routes"
	"github.com/bettersale/bettersale-backend/internal/backend"
	"github.com/bettersale/bettersale-backend/internal/backend/gormstore"
	"github.com/bettersale/bettersale-backend/internal/backend/memstore"
	"github.com/bettersale/bettersale-backend/internal/backend/seed"
	"github.com/bettersale/bettersale-backend/internal/catalog"
	"github.com/bettersale/bettersale-backend/internal/customers"
	"github.com/bettersale/bettersale-backend/internal/engine"
	"github.com/bettersale/bettersale-backend/internal/products"
	"github.com/bettersale/bettersale-backend/internal/scheduling"
	"github.com/bettersale/bettersale-backend/internal/tools"
	"github.com/bettersale/bettersale-backend/pkg/config"
	"github.com/bettersale/bettersale-backend/pkg/db"
	"github.com/bettersale/bettersale-backend/pkg/logger"
	"github.com/bettersale/bettersale-backend/pkg/metrics"
	"github.com/bettersale/bettersale-backend/pkg/migrate"
	redisclient "github.com/bettersale/bettersale-backend/pkg/redis"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "bettersale-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "service exited", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	client, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
		return err
	}
	if cfg.FeatureFlags.SeedDemoData {
		if err := seed.ApplyDB(ctx, client); err != nil {
			return err
		}
		logg.Info(ctx, "demo dataset seeded")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	backendMetrics := metrics.NewBackendMetrics(registry)

	primary := gormstore.New(client, cfg.DB.OpTimeout)
	fallback := memstore.New()
	selector, err := backend.NewSelector(primary, fallback, logg, backendMetrics)
	if err != nil {
		return err
	}

	var reader catalog.Reader = catalog.NewStoreReader(selector)
	var cache *redisclient.Client
	if cfg.Redis.Enabled() {
		cache, err = redisclient.New(ctx, cfg.Redis, logg)
		if err != nil {
			// Redis is an accelerator, not a dependency; run without it.
			logg.Warn(logg.WithField(ctx, "error", err.Error()), "redis unavailable, catalog cache disabled")
			cache = nil
		} else {
			defer func() { _ = cache.Close() }()
			reader = catalog.NewCachedReader(reader, cache, cfg.Redis.CatalogTTL, logg)
		}
	}

	toolCatalog := tools.NewCatalog(tools.Services{
		Engine:     engine.New(selector, reader, logg),
		Scheduling: scheduling.New(selector, cfg.Scheduling, logg),
		Products:   products.New(reader, selector, logg),
		Customers:  customers.New(selector, logg),
	}, logg)

	deps := routes.Deps{
		Registry:    toolCatalog,
		Logger:      logg,
		DB:          client,
		Cache:       pinger(cache),
		Metrics:     registry,
		CORSOrigins: cfg.App.CORSOrigins,
	}
	if cache != nil {
		deps.Idempotency = cache
	}
	router := routes.New(deps)

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "port", cfg.App.Port), "http server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

// pinger avoids handing the router a typed-nil interface when the cache is
// disabled.
func pinger(c *redisclient.Client) handlers.Pinger {
	if c == nil {
		return nil
	}
	return c
}
