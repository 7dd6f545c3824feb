package usecase

import (
	"context"

	"github.com/google/uuid"

	"nearby/internal/domain/entity"
)

// CreateReviewInput defines the data required to review a booking.
// ServiceID and the provider are resolved from the booking.
type CreateReviewInput struct {
	BookingID  uuid.UUID
	Rating     int
	ReviewText string
}

// UpdateReviewInput carries review edits. Only rating and text can change.
type UpdateReviewInput struct {
	Rating     int
	ReviewText string
}

// ReviewUsecase defines the business operations on reviews.
type ReviewUsecase interface {
	// CreateReview submits a review of a booking the caller made.
	CreateReview(ctx context.Context, reviewerID uuid.UUID, input *CreateReviewInput) (*entity.Review, error)

	// GetUserBookingReview returns the review the caller left on a booking,
	// or (nil, nil) when none exists.
	GetUserBookingReview(ctx context.Context, reviewerID, bookingID uuid.UUID) (*entity.Review, error)

	// UpdateReview edits a review the caller wrote, within 24 hours of
	// its creation.
	UpdateReview(ctx context.Context, reviewerID, reviewID uuid.UUID, input *UpdateReviewInput) (*entity.Review, error)

	// DeleteReview removes a review the caller wrote.
	DeleteReview(ctx context.Context, reviewerID, reviewID uuid.UUID) error

	// GetServiceReviews returns all reviews of a listing, newest first.
	GetServiceReviews(ctx context.Context, serviceID uuid.UUID) ([]*entity.Review, error)

	// GetProviderReviews returns all reviews against a provider, newest first.
	GetProviderReviews(ctx context.Context, providerID uuid.UUID) ([]*entity.Review, error)

	// GetUserReviews returns all reviews the caller submitted, newest first.
	GetUserReviews(ctx context.Context, reviewerID uuid.UUID) ([]*entity.Review, error)
}
