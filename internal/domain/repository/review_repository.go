package repository

import (
	"context"
	"errors"

	"nearby/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrReviewNotFound is returned when no review matches.
var ErrReviewNotFound = errors.New("review not found")

// ReviewRepository defines the operations for review persistence.
type ReviewRepository interface {
	// Create persists a new review.
	Create(ctx context.Context, review *entity.Review) error

	// FindByID retrieves a review by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)

	// FindByBookingAndReviewer retrieves the review a user left on a booking.
	// Returns ErrReviewNotFound when none exists.
	FindByBookingAndReviewer(ctx context.Context, bookingID, reviewerID uuid.UUID) (*entity.Review, error)

	// FindByService retrieves all reviews of a listing, newest first.
	FindByService(ctx context.Context, serviceID uuid.UUID) ([]*entity.Review, error)

	// FindByProvider retrieves all reviews against a provider, newest first.
	FindByProvider(ctx context.Context, providerID uuid.UUID) ([]*entity.Review, error)

	// FindByReviewer retrieves all reviews a user submitted, newest first.
	FindByReviewer(ctx context.Context, reviewerID uuid.UUID) ([]*entity.Review, error)

	// Update applies rating and text changes by ID and stamps UpdatedAt.
	Update(ctx context.Context, review *entity.Review) error

	// Delete removes a review by ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
