package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/propsight/propsight/internal/analytics"
	"github.com/propsight/propsight/internal/api"
	"github.com/propsight/propsight/internal/ingest"
	"github.com/propsight/propsight/internal/providers"
	"github.com/propsight/propsight/internal/services"
	"github.com/propsight/propsight/internal/store"
	"github.com/propsight/propsight/pkg/config"
	"github.com/propsight/propsight/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	logger := logrus.StandardLogger()
	if cfg.IsDevelopment() {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis; caching is optional, so a missing Redis only warns
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logrus.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.WithError(err).Warn("Redis unavailable, continuing without cache")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	// Initialize services
	cacheService := services.NewCacheService(redisClient, logger)
	st := store.New(db, logger)
	if err := st.AutoMigrate(); err != nil {
		logrus.Fatalf("Failed to migrate schema: %v", err)
	}

	client := providers.NewSportsGameOddsClient(cfg, cacheService, logger)
	engine := ingest.NewUpsertEngine(st, logger, cfg.UpsertBatchSize)
	pipeline := ingest.NewPipeline(client, engine, st, cfg, logger)
	analyticsEngine := analytics.NewEngine(st, logger)

	// Nightly refresh: reingest lines and results, then rebuild analytics
	if cfg.EnableScheduler {
		scheduler := services.NewScheduler(cfg.NightlyCronSpec, func(ctx context.Context) {
			if _, err := pipeline.Run(ctx, ingest.Options{TriggeredBy: "schedule"}); err != nil {
				logger.WithError(err).Error("Nightly ingestion failed")
			}
			if _, err := pipeline.RunPerformance(ctx, ingest.Options{TriggeredBy: "schedule"}); err != nil {
				logger.WithError(err).Error("Nightly performance ingestion failed")
			}
			if _, err := analyticsEngine.Precompute(ctx); err != nil {
				logger.WithError(err).Error("Nightly precompute failed")
			}
		}, logger)
		if err := scheduler.Start(); err != nil {
			logrus.Fatalf("Failed to start scheduler: %v", err)
		}
		defer scheduler.Stop()
	}

	router := api.NewRouter(cfg, db, st, pipeline, analyticsEngine, cacheService, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // synchronous ingestion can run long
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Forced shutdown: %v", err)
	}
	logger.Info("Server exited")
}
