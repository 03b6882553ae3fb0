package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// DefaultStreamMaxLen is used when no cap is configured.
const DefaultStreamMaxLen = 10000

// StreamKey is the Redis stream an event type is written to.
func StreamKey(eventType string) string {
	return fmt.Sprintf("events:%s", eventType)
}

// RedisEventPublisher appends domain events to per-type Redis streams,
// trimmed approximately to maxLen entries.
type RedisEventPublisher struct {
	client *redis.Client
	maxLen int64
	logger *zap.Logger
}

func NewRedisEventPublisher(client *redis.Client, maxLen int64, logger *zap.Logger) *RedisEventPublisher {
	if maxLen <= 0 {
		maxLen = DefaultStreamMaxLen
	}
	return &RedisEventPublisher{
		client: client,
		maxLen: maxLen,
		logger: logger,
	}
}

// Publish writes the event to its stream. Orphan reports for the shared
// placeholder or an empty URL are dropped since the worker must never delete them.
func (p *RedisEventPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	values := map[string]interface{}{
		"event_id":     event.GetEventID(),
		"event_type":   event.GetEventType(),
		"aggregate_id": event.GetAggregateID(),
		"occurred_at":  event.GetOccurredAt().Unix(),
	}

	if orphan, ok := event.(*domain.BlobOrphanedEvent); ok {
		if !domain.IsCustomImage(orphan.Payload.URL) {
			p.logger.Debug("skipping orphan report for non-custom image",
				zap.String("url", orphan.Payload.URL),
				zap.String("customer_id", orphan.AggregateID),
			)
			return nil
		}
		// flat fields so XRANGE shows what is waiting for cleanup
		values["blob_url"] = orphan.Payload.URL
		values["reason"] = orphan.Payload.Reason
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	values["data"] = string(eventData)

	streamKey := StreamKey(event.GetEventType())
	args := &redis.XAddArgs{
		Stream: streamKey,
		MaxLen: p.maxLen,
		Approx: true,
		Values: values,
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		p.logger.Error("failed to publish event",
			zap.Error(err),
			zap.String("event_type", event.GetEventType()),
			zap.String("event_id", event.GetEventID()),
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event published",
		zap.String("event_type", event.GetEventType()),
		zap.String("event_id", event.GetEventID()),
		zap.String("stream", streamKey),
	)

	return nil
}
