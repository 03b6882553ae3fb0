package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gigmile/dashboard-service/internal/domain"
	"go.uber.org/zap"
)

// BlobCleanupService retries deletes of blobs that lost their customer row.
type BlobCleanupService struct {
	blobs  domain.BlobStore
	logger *zap.Logger
}

func NewBlobCleanupService(blobs domain.BlobStore, logger *zap.Logger) *BlobCleanupService {
	return &BlobCleanupService{
		blobs:  blobs,
		logger: logger,
	}
}

// HandleBlobOrphaned returns an error to keep the event pending for another attempt.
func (s *BlobCleanupService) HandleBlobOrphaned(ctx context.Context, event domain.DomainEvent) error {
	orphaned, ok := event.(*domain.BlobOrphanedEvent)
	if !ok {
		return fmt.Errorf("invalid event type")
	}

	payload := orphaned.Payload
	if !domain.IsCustomImage(payload.URL) {
		s.logger.Debug("ignoring orphan event for placeholder image", zap.String("event_id", event.GetEventID()))
		return nil
	}

	err := s.blobs.Delete(ctx, payload.URL)
	switch {
	case err == nil:
		s.logger.Info("orphaned blob deleted",
			zap.String("event_id", event.GetEventID()),
			zap.String("image_url", payload.URL),
			zap.String("reason", payload.Reason),
		)
		return nil
	case errors.Is(err, domain.ErrBlobNotFound):
		s.logger.Info("orphaned blob already gone", zap.String("image_url", payload.URL))
		return nil
	default:
		s.logger.Warn("failed to delete orphaned blob",
			zap.Error(err),
			zap.String("event_id", event.GetEventID()),
			zap.String("image_url", payload.URL),
		)
		return fmt.Errorf("failed to delete blob: %w", err)
	}
}
