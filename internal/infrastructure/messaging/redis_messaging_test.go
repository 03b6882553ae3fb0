package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gigmile/dashboard-service/internal/domain"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisEventPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)
	publisher := NewRedisEventPublisher(client, 0, zap.NewNop())

	event := domain.NewBlobOrphanedEvent("cust-1", domain.BlobOrphanedPayload{
		URL:    "/customers/amy-1a2b3c4d.png",
		Reason: domain.OrphanReasonDeleteFailed,
	})
	require.NoError(t, publisher.Publish(ctx, event))

	messages, err := client.XRange(ctx, StreamKey(domain.EventTypeBlobOrphaned), "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, event.EventID, messages[0].Values["event_id"])
	assert.Equal(t, "cust-1", messages[0].Values["aggregate_id"])
	assert.Equal(t, "/customers/amy-1a2b3c4d.png", messages[0].Values["blob_url"])
	assert.Equal(t, domain.OrphanReasonDeleteFailed, messages[0].Values["reason"])
}

func TestRedisEventPublisher_SkipsPlaceholder(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)
	publisher := NewRedisEventPublisher(client, 0, zap.NewNop())

	for _, url := range []string{domain.PlaceholderImageURL, " "} {
		require.NoError(t, publisher.Publish(ctx, domain.NewBlobOrphanedEvent("cust-1", domain.BlobOrphanedPayload{
			URL:    url,
			Reason: domain.OrphanReasonDeleteFailed,
		})))
	}

	n, err := client.XLen(ctx, StreamKey(domain.EventTypeBlobOrphaned)).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisEventPublisher_MaxLen(t *testing.T) {
	assert.Equal(t, int64(DefaultStreamMaxLen), NewRedisEventPublisher(nil, 0, zap.NewNop()).maxLen)
	assert.Equal(t, int64(250), NewRedisEventPublisher(nil, 250, zap.NewNop()).maxLen)
}

func TestRedisEventSubscriber_AcksHandledMessages(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)
	publisher := NewRedisEventPublisher(client, 0, zap.NewNop())
	subscriber := NewRedisEventSubscriber(client, zap.NewNop(), "worker-1", "", time.Second)

	var received []*domain.BlobOrphanedEvent
	require.NoError(t, subscriber.Subscribe(ctx, domain.EventTypeBlobOrphaned, func(_ context.Context, event domain.DomainEvent) error {
		e, ok := event.(*domain.BlobOrphanedEvent)
		require.True(t, ok)
		received = append(received, e)
		return nil
	}))
	// second subscribe must tolerate the existing group
	require.NoError(t, subscriber.Subscribe(ctx, domain.EventTypeBlobOrphaned, subscriber.handlers[domain.EventTypeBlobOrphaned]))

	require.NoError(t, publisher.Publish(ctx, domain.NewBlobOrphanedEvent("cust-1", domain.BlobOrphanedPayload{
		URL:    "/customers/amy-1a2b3c4d.png",
		Reason: domain.OrphanReasonRowWriteFailed,
	})))

	require.NoError(t, subscriber.processEvents(ctx))
	require.Len(t, received, 1)
	assert.Equal(t, "/customers/amy-1a2b3c4d.png", received[0].Payload.URL)
	assert.Equal(t, domain.OrphanReasonRowWriteFailed, received[0].Payload.Reason)

	pending, err := client.XPending(ctx, StreamKey(domain.EventTypeBlobOrphaned), DefaultGroupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

func TestRedisEventSubscriber_FailedMessagesStayPending(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)
	publisher := NewRedisEventPublisher(client, 0, zap.NewNop())
	subscriber := NewRedisEventSubscriber(client, zap.NewNop(), "worker-1", "", time.Second)

	attempts := 0
	require.NoError(t, subscriber.Subscribe(ctx, domain.EventTypeBlobOrphaned, func(context.Context, domain.DomainEvent) error {
		attempts++
		if attempts == 1 {
			return errors.New("blob store unavailable")
		}
		return nil
	}))

	require.NoError(t, publisher.Publish(ctx, domain.NewBlobOrphanedEvent("cust-1", domain.BlobOrphanedPayload{URL: "/customers/x.png"})))

	require.NoError(t, subscriber.processEvents(ctx))
	pending, err := client.XPending(ctx, StreamKey(domain.EventTypeBlobOrphaned), DefaultGroupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count)

	require.NoError(t, subscriber.processPending(ctx))
	assert.Equal(t, 2, attempts)

	pending, err = client.XPending(ctx, StreamKey(domain.EventTypeBlobOrphaned), DefaultGroupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

func TestRedisEventSubscriber_PendingRetryPagesPastFailures(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)
	publisher := NewRedisEventPublisher(client, 0, zap.NewNop())
	subscriber := NewRedisEventSubscriber(client, zap.NewNop(), "worker-1", "", time.Second)

	const stuck = readBatchSize + 2
	failing := true
	var handled []string
	require.NoError(t, subscriber.Subscribe(ctx, domain.EventTypeBlobOrphaned, func(_ context.Context, event domain.DomainEvent) error {
		url := event.(*domain.BlobOrphanedEvent).Payload.URL
		if failing || strings.HasPrefix(url, "/customers/stuck-") {
			return errors.New("blob store unavailable")
		}
		handled = append(handled, url)
		return nil
	}))

	for i := 0; i < stuck; i++ {
		require.NoError(t, publisher.Publish(ctx, domain.NewBlobOrphanedEvent("cust-1", domain.BlobOrphanedPayload{URL: fmt.Sprintf("/customers/stuck-%d.png", i)})))
	}
	require.NoError(t, publisher.Publish(ctx, domain.NewBlobOrphanedEvent("cust-2", domain.BlobOrphanedPayload{URL: "/customers/late.png"})))

	// everything fails on first delivery
	for i := 0; i < 2; i++ {
		require.NoError(t, subscriber.processEvents(ctx))
	}
	pending, err := client.XPending(ctx, StreamKey(domain.EventTypeBlobOrphaned), DefaultGroupName).Result()
	require.NoError(t, err)
	require.Equal(t, int64(stuck+1), pending.Count)

	failing = false
	require.NoError(t, subscriber.processPending(ctx))

	assert.Equal(t, []string{"/customers/late.png"}, handled)
	pending, err = client.XPending(ctx, StreamKey(domain.EventTypeBlobOrphaned), DefaultGroupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(stuck), pending.Count)
}
