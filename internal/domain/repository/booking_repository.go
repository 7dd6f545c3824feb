package repository

import (
	"context"
	"errors"

	"nearby/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrBookingNotFound is returned when no booking matches.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepository defines the operations for booking persistence.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *entity.Booking) error

	// FindByID retrieves a booking by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)

	// FindByCustomer retrieves a customer's bookings, newest booking date first.
	FindByCustomer(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error)

	// FindByProvider retrieves a provider's incoming bookings, newest booking
	// date first.
	FindByProvider(ctx context.Context, providerID uuid.UUID) ([]*entity.Booking, error)

	// UpdateStatus overwrites the booking status and stamps UpdatedAt.
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) (*entity.Booking, error)
}
