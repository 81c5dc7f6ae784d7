package service

import (
	"context"
	"time"
)

// AccountEvent describes a change to an account for downstream consumers.
type AccountEvent struct {
	RequestID    string    `json:"request_id,omitempty"` // For distributed tracing
	EventID      string    `json:"event_id"`
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	PreviousName string    `json:"previous_name,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishAccountEvent publishes an account lifecycle event
	PublishAccountEvent(ctx context.Context, event *AccountEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
