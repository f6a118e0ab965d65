package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/safar/go-storefront/internal/cache"
	"github.com/safar/go-storefront/internal/checkout"
	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/httpapi"
	"github.com/safar/go-storefront/internal/logging"
	"github.com/safar/go-storefront/internal/pricing"
	"github.com/safar/go-storefront/internal/service"
	"github.com/safar/go-storefront/internal/store"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Create logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("connected to database")

	if cfg.Database.MigrateOnStart {
		if err := database.Migrate(db, database.Up); err != nil {
			logger.Fatal("run migrations", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cartCache cache.CartCache
	redisClient, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, serving carts from postgres only", zap.Error(err))
	} else {
		defer redisClient.Close()
		cartCache = cache.NewRedisCache(redisClient, cfg.Redis.CartTTL)
	}

	publisher := events.NewPublisher(cfg.Kafka)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("close publisher", zap.Error(err))
		}
	}()

	policy := pricing.Policy{
		Currency:              cfg.Pricing.Currency,
		FreeDeliveryThreshold: cfg.Pricing.FreeDeliveryThreshold,
		StandardDeliveryFee:   cfg.Pricing.StandardDeliveryFee,
		TaxRate:               cfg.Pricing.TaxRate,
	}
	checkoutSvc, err := checkout.NewService(policy)
	if err != nil {
		logger.Fatal("invalid pricing policy", zap.Error(err))
	}

	repo := store.NewRepository(db)
	svc := service.NewCartService(service.Dependencies{
		Catalog:   repo,
		Carts:     repo,
		Orders:    repo,
		Checkout:  checkoutSvc,
		Cache:     cartCache,
		Publisher: publisher,
		Logger:    logger,
	}, cfg.Breaker)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpapi.NewRouter(svc, logger, cfg.Server.RequestTimeout),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("server exited")
}
