package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/edvin/agencysites/internal/api"
	"github.com/edvin/agencysites/internal/cache"
	"github.com/edvin/agencysites/internal/config"
	"github.com/edvin/agencysites/internal/core"
	"github.com/edvin/agencysites/internal/db"
	"github.com/edvin/agencysites/internal/entitlement"
	"github.com/edvin/agencysites/internal/logging"
	"github.com/edvin/agencysites/internal/media"
	"github.com/edvin/agencysites/internal/metrics"
)

func main() {
	migrateFlag := flag.Bool("migrate", false, "Run database migrations before starting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	if *migrateFlag {
		logger.Info().Msg("running database migrations")
		if err := db.RunMigrations(cfg.DatabaseURL); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	metrics.RegisterStoreMetrics(prometheus.DefaultRegisterer, pool)

	tenantCache, err := cache.NewRistretto(cfg.CacheMaxBytes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create tenant cache")
	}
	defer tenantCache.Close()

	var resolver *media.Resolver
	if cfg.MediaEnabled() {
		resolver = media.NewResolver(media.Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			TTL:       cfg.MediaURLTTL,
		})
		logger.Info().Str("bucket", cfg.S3Bucket).Msg("media presigning enabled")
	}

	watcher := core.NewWatcher(logger)
	go watcher.Run(ctx, pool)

	loader := core.NewLoader(core.NewTenantService(pool), tenantCache, cfg.StoreTimeout, cfg.CacheTTL)
	stopInvalidation := loader.InvalidateOn(watcher)
	defer stopInvalidation()

	if len(cfg.OperatorIdentities) > 0 {
		logger.Info().Int("count", len(cfg.OperatorIdentities)).Msg("operator identities configured")
	}

	srv := api.NewServer(logger, api.Deps{
		DB:        pool,
		Pool:      pool,
		Loader:    loader,
		Watcher:   watcher,
		Media:     resolver,
		Evaluator: entitlement.New(cfg.OperatorIdentities...),
	}, cfg)

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting site API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}
