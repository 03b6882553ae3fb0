package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultGroupName is the consumer group shared by every cleanup worker.
const DefaultGroupName = "blob-janitors"

const readBatchSize = 10

type RedisEventSubscriber struct {
	client        *redis.Client
	logger        *zap.Logger
	handlers      map[string]domain.EventHandler
	consumerName  string
	groupName     string
	retryInterval time.Duration
}

func NewRedisEventSubscriber(client *redis.Client, logger *zap.Logger, consumerName, groupName string, retryInterval time.Duration) *RedisEventSubscriber {
	if groupName == "" {
		groupName = DefaultGroupName
	}
	if retryInterval <= 0 {
		retryInterval = 30 * time.Second
	}
	return &RedisEventSubscriber{
		client:        client,
		logger:        logger,
		handlers:      make(map[string]domain.EventHandler),
		consumerName:  consumerName,
		groupName:     groupName,
		retryInterval: retryInterval,
	}
}

func (s *RedisEventSubscriber) Subscribe(ctx context.Context, eventType string, handler domain.EventHandler) error {
	s.handlers[eventType] = handler

	streamKey := StreamKey(eventType)

	err := s.client.XGroupCreateMkStream(ctx, streamKey, s.groupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	s.logger.Info("subscribed to event",
		zap.String("event_type", eventType),
		zap.String("stream", streamKey),
		zap.String("group", s.groupName),
	)

	return nil
}

// Start blocks until ctx is cancelled. Messages whose handler fails stay
// pending and are retried every retryInterval.
func (s *RedisEventSubscriber) Start(ctx context.Context) error {
	s.logger.Info("starting event subscriber",
		zap.String("consumer", s.consumerName),
		zap.String("group", s.groupName),
	)

	retry := time.NewTicker(s.retryInterval)
	defer retry.Stop()

	// Pick up anything this consumer left pending before a restart.
	if err := s.processPending(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error("error processing pending events", zap.Error(err))
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping event subscriber")
			return nil
		case <-retry.C:
			if err := s.processPending(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("error retrying pending events", zap.Error(err))
			}
		default:
			if err := s.processEvents(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("error processing events", zap.Error(err))
				time.Sleep(1 * time.Second)
			}
		}
	}
}

// processEvents reads one batch of new messages per subscribed stream.
func (s *RedisEventSubscriber) processEvents(ctx context.Context) error {
	for eventType := range s.handlers {
		streamKey := StreamKey(eventType)

		streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    s.groupName,
			Consumer: s.consumerName,
			Streams:  []string{streamKey, ">"},
			Count:    readBatchSize,
			Block:    1 * time.Second,
		}).Result()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return fmt.Errorf("failed to read from stream: %w", err)
		}

		for _, stream := range streams {
			s.handleBatch(ctx, eventType, streamKey, stream.Messages)
		}
	}

	return nil
}

// processPending walks this consumer's whole pending list, one batch at a
// time, so entries that keep failing do not hide the ones behind them.
func (s *RedisEventSubscriber) processPending(ctx context.Context) error {
	for eventType := range s.handlers {
		streamKey := StreamKey(eventType)

		after := "0"
		for {
			streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    s.groupName,
				Consumer: s.consumerName,
				Streams:  []string{streamKey, after},
				Count:    readBatchSize,
				Block:    -1,
			}).Result()
			if err != nil && err != redis.Nil {
				return fmt.Errorf("failed to read pending entries: %w", err)
			}
			if len(streams) == 0 || len(streams[0].Messages) == 0 {
				break
			}

			messages := streams[0].Messages
			s.handleBatch(ctx, eventType, streamKey, messages)
			after = messages[len(messages)-1].ID
		}
	}

	return nil
}

func (s *RedisEventSubscriber) handleBatch(ctx context.Context, eventType, streamKey string, messages []redis.XMessage) {
	for _, message := range messages {
		// trimmed by MAXLEN while pending; nothing left to retry
		if len(message.Values) == 0 {
			s.logger.Warn("dropping pending entry trimmed from stream",
				zap.String("message_id", message.ID),
				zap.String("stream", streamKey),
			)
			s.ack(ctx, streamKey, message.ID)
			continue
		}

		if err := s.handleMessage(ctx, eventType, message); err != nil {
			s.logger.Warn("failed to handle message, leaving pending",
				zap.Error(err),
				zap.String("message_id", message.ID),
				zap.String("stream", streamKey),
			)
			continue
		}
		s.ack(ctx, streamKey, message.ID)
	}
}

func (s *RedisEventSubscriber) ack(ctx context.Context, streamKey, id string) {
	if err := s.client.XAck(ctx, streamKey, s.groupName, id).Err(); err != nil {
		s.logger.Error("failed to ack message",
			zap.Error(err),
			zap.String("message_id", id),
		)
	}
}

func (s *RedisEventSubscriber) handleMessage(ctx context.Context, eventType string, message redis.XMessage) error {
	handler, exists := s.handlers[eventType]
	if !exists {
		return fmt.Errorf("no handler for event type: %s", eventType)
	}

	eventData, ok := message.Values["data"].(string)
	if !ok {
		return fmt.Errorf("invalid event data format")
	}

	var event domain.DomainEvent
	switch eventType {
	case domain.EventTypeBlobOrphaned:
		var e domain.BlobOrphanedEvent
		if err := json.Unmarshal([]byte(eventData), &e); err != nil {
			return fmt.Errorf("failed to unmarshal event: %w", err)
		}
		event = &e
	default:
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	return handler(ctx, event)
}
