package service

import (
	"context"
)

// BookingEvent is published on booking creation and status changes for
// asynchronous consumers (analytics, notification workers).
type BookingEvent struct {
	RequestID         string `json:"request_id,omitempty"` // For distributed tracing.
	BookingID         string `json:"booking_id"`
	ServiceID         string `json:"service_id"`
	CustomerID        string `json:"customer_id"`
	ServiceProviderID string `json:"service_provider_id"`
	Status            string `json:"status"`
	OccurredAt        string `json:"occurred_at"` // RFC 3339.
}

// EventPublisher defines the interface for publishing events to a message queue.
type EventPublisher interface {
	// PublishBookingEvent publishes a booking lifecycle event for async processing.
	PublishBookingEvent(ctx context.Context, event *BookingEvent) error

	// Close releases any resources held by the publisher.
	Close() error
}
