package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gigmile/dashboard-service/internal/config"
	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/gigmile/dashboard-service/internal/infrastructure/cache"
	"github.com/gigmile/dashboard-service/internal/infrastructure/crypto"
	"github.com/gigmile/dashboard-service/internal/infrastructure/database"
	"github.com/gigmile/dashboard-service/internal/infrastructure/messaging"
	sqlrepository "github.com/gigmile/dashboard-service/internal/infrastructure/repository/sql"
	"github.com/gigmile/dashboard-service/internal/infrastructure/storage"
	"github.com/gigmile/dashboard-service/internal/interface/http/handler"
	"github.com/gigmile/dashboard-service/internal/interface/http/router"
	"github.com/gigmile/dashboard-service/internal/interface/http/session"
	"github.com/gigmile/dashboard-service/internal/interface/http/views"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	cfg := config.Load()
	ctx := context.Background()

	if cfg.Session.UsesDefaultSecret() {
		if cfg.Session.Secure {
			logger.Fatal("SESSION_SECRET must be set when SESSION_SECURE is enabled")
		}
		logger.Warn("SESSION_SECRET is not set; session cookies can be forged, use only for local development")
	}

	db, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get underlying sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.Migrate(db); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	healthChecks := map[string]func(context.Context) error{
		"database": sqlDB.PingContext,
	}

	// Redis backs the view cache and orphaned-blob events; without it the
	// service runs on the in-memory cache and only logs orphans.
	var (
		viewCache      cache.ViewCache
		eventPublisher domain.EventPublisher
	)
	if cfg.Cache.Driver == "redis" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis successfully")

		viewCache = cache.NewRedisViewCache(redisClient, cfg.Cache.TTL)
		eventPublisher = messaging.NewRedisEventPublisher(redisClient, int64(cfg.Redis.StreamMaxLen), logger)
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		logger.Info("event publishing enabled")
	} else {
		viewCache = cache.NewMemoryViewCache(cfg.Cache.TTL)
		logger.Info("using in-memory view cache", zap.Duration("ttl", cfg.Cache.TTL))
	}

	blobs, avatars, err := storage.New(cfg.Blob, logger)
	if err != nil {
		logger.Fatal("failed to initialize blob store", zap.Error(err))
	}
	logger.Info("blob store ready", zap.String("driver", cfg.Blob.Driver))

	renderer, err := views.New()
	if err != nil {
		logger.Fatal("failed to load templates", zap.Error(err))
	}

	handlers := handler.NewHandlers(handler.Dependencies{
		Repos:          sqlrepository.NewRepositories(db, logger),
		Blobs:          blobs,
		ViewCache:      viewCache,
		EventPublisher: eventPublisher,
		Hasher:         crypto.NewArgon2Hasher(crypto.DefaultParams),
		Sessions:       session.NewManager(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.Secure),
		Views:          renderer,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Avatars:        avatars,
		HealthChecks:   healthChecks,
	}, logger)
	r := router.NewRouter(handlers, cfg.Server.MaxUploadBytes, logger)

	serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("starting server", zap.String("address", serverAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
