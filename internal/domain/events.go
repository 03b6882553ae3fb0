package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventTypeBlobOrphaned = "blob.orphaned"
)

// Reasons attached to an orphaned blob
const (
	OrphanReasonDeleteFailed   = "delete_failed"
	OrphanReasonRowWriteFailed = "row_write_failed"
)

// DomainEvent represents a domain event
type DomainEvent interface {
	GetEventID() string
	GetEventType() string
	GetAggregateID() string
	GetOccurredAt() time.Time
	GetPayload() interface{}
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e BaseEvent) GetEventID() string       { return e.EventID }
func (e BaseEvent) GetEventType() string     { return e.EventType }
func (e BaseEvent) GetAggregateID() string   { return e.AggregateID }
func (e BaseEvent) GetOccurredAt() time.Time { return e.OccurredAt }

// BlobOrphanedEvent - a blob is no longer referenced by any customer row
type BlobOrphanedEvent struct {
	BaseEvent
	Payload BlobOrphanedPayload `json:"payload"`
}

func (e BlobOrphanedEvent) GetPayload() interface{} { return e.Payload }

type BlobOrphanedPayload struct {
	URL        string `json:"url"`
	CustomerID string `json:"customer_id,omitempty"`
	Reason     string `json:"reason"`
}

func NewBlobOrphanedEvent(customerID string, payload BlobOrphanedPayload) *BlobOrphanedEvent {
	return &BlobOrphanedEvent{
		BaseEvent: BaseEvent{
			EventID:     uuid.New().String(),
			EventType:   EventTypeBlobOrphaned,
			AggregateID: customerID,
			OccurredAt:  time.Now(),
		},
		Payload: payload,
	}
}

// EventPublisher interface
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

// EventSubscriber interface
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType string, handler EventHandler) error
}

// EventHandler processes events
type EventHandler func(ctx context.Context, event DomainEvent) error
