package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"nearby/internal/domain/entity"
)

// CreateBookingInput defines the data required to request an appointment.
// The provider is resolved from the listing, never supplied by the client.
type CreateBookingInput struct {
	ServiceID   uuid.UUID
	BookingDate time.Time
	Notes       string
}

// UpdateBookingStatusInput carries a requested booking status transition.
type UpdateBookingStatusInput struct {
	Status entity.BookingStatus
}

// BookingUsecase defines the business operations on bookings.
type BookingUsecase interface {
	// CreateBooking requests an appointment on an active listing. The
	// customer's contact details are snapshotted from their profile.
	CreateBooking(ctx context.Context, customerID uuid.UUID, input *CreateBookingInput) (*entity.Booking, error)

	// GetUserBookings returns the customer's bookings, newest booking date
	// first, enriched with listing summaries where available.
	GetUserBookings(ctx context.Context, customerID uuid.UUID) ([]*entity.Booking, error)

	// GetProviderBookings returns a provider's incoming bookings, newest
	// booking date first, enriched with listing summaries where available.
	GetProviderBookings(ctx context.Context, providerID uuid.UUID) ([]*entity.Booking, error)

	// UpdateBookingStatus moves a booking through its lifecycle. Customers
	// may only cancel; providers may confirm, complete, and cancel.
	UpdateBookingStatus(ctx context.Context, actorID, bookingID uuid.UUID, input *UpdateBookingStatusInput) (*entity.Booking, error)
}
