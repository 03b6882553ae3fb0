package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gigmile/dashboard-service/internal/application/service"
	"github.com/gigmile/dashboard-service/internal/config"
	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/gigmile/dashboard-service/internal/infrastructure/messaging"
	"github.com/gigmile/dashboard-service/internal/infrastructure/storage"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// The worker retries deletes of customer images that the API could not
// remove, consuming blob.orphaned events from Redis.
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	cfg := config.Load()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	logger.Info("connected to Redis successfully")

	blobs, _, err := storage.New(cfg.Blob, logger)
	if err != nil {
		logger.Fatal("failed to initialize blob store", zap.Error(err))
	}

	cleanupService := service.NewBlobCleanupService(blobs, logger)

	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("worker-%s-%d", hostname, os.Getpid())
	eventSubscriber := messaging.NewRedisEventSubscriber(redisClient, logger, consumerName, messaging.DefaultGroupName, cfg.Worker.RetryInterval)

	if err := eventSubscriber.Subscribe(ctx, domain.EventTypeBlobOrphaned, cleanupService.HandleBlobOrphaned); err != nil {
		logger.Fatal("failed to subscribe to events", zap.Error(err))
	}

	logger.Info("worker started",
		zap.String("consumer", consumerName),
		zap.String("event_type", domain.EventTypeBlobOrphaned),
		zap.String("blob_driver", cfg.Blob.Driver),
	)

	// Graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutting down worker...")
		cancel()
	}()

	if err := eventSubscriber.Start(ctx); err != nil {
		logger.Info("worker stopped", zap.Error(err))
	}

	logger.Info("worker exited")
}
