package impl

import (
	"context"
	"log/slog"
	"time"

	"nearby/internal/delivery/reqctx"
	"nearby/internal/domain/entity"
	domainerrors "nearby/internal/domain/errors"
	"nearby/internal/domain/repository"
	"nearby/internal/infra/metrics"
	"nearby/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	reviewRepo  repository.ReviewRepository
	bookingRepo repository.BookingRepository
	serviceRepo repository.ServiceRepository
	collector   metrics.Collector
	logger      *slog.Logger
}

// ReviewServiceParams holds dependencies for reviewService, injected by Fx.
type ReviewServiceParams struct {
	fx.In

	ReviewRepo  repository.ReviewRepository
	BookingRepo repository.BookingRepository
	ServiceRepo repository.ServiceRepository
	Collector   metrics.Collector
	Logger      *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(params ReviewServiceParams) usecase.ReviewUsecase {
	return &reviewService{
		reviewRepo:  params.ReviewRepo,
		bookingRepo: params.BookingRepo,
		serviceRepo: params.ServiceRepo,
		collector:   params.Collector,
		logger:      params.Logger,
	}
}

func (srv *reviewService) log(ctx context.Context) *slog.Logger {
	return reqctx.Logger(ctx, srv.logger)
}

// CreateReview submits a review of a completed booking the caller made.
// The listing and provider are resolved from the booking, never from the
// client. One review per booking per reviewer.
func (srv *reviewService) CreateReview(ctx context.Context, reviewerID uuid.UUID, input *usecase.CreateReviewInput) (*entity.Review, error) {
	if !entity.IsValidRating(input.Rating) {
		return nil, domainerrors.ErrValidationFailed.WithDetails("rating must be between 1 and 5")
	}

	booking, err := srv.bookingRepo.FindByID(ctx, input.BookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, domainerrors.ErrBookingNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load booking")
	}
	if booking.UserID != reviewerID {
		return nil, domainerrors.ErrForbidden.WithDetails("booking belongs to another user")
	}
	if booking.BookingStatus != entity.BookingStatusCompleted {
		return nil, domainerrors.ErrValidationFailed.WithDetails("only completed bookings can be reviewed")
	}

	if _, err := srv.reviewRepo.FindByBookingAndReviewer(ctx, booking.ID, reviewerID); err == nil {
		return nil, domainerrors.ErrConflict.WithDetails("this booking has already been reviewed")
	} else if !errors.Is(err, repository.ErrReviewNotFound) {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to check existing review")
	}

	review := &entity.Review{
		BookingID:         booking.ID,
		ServiceID:         booking.ServiceID,
		ServiceProviderID: booking.ServiceProviderID,
		ReviewerID:        reviewerID,
		Rating:            input.Rating,
		ReviewText:        input.ReviewText,
	}
	if err := srv.reviewRepo.Create(ctx, review); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}

	srv.collector.RecordReviewSubmitted(review.Rating)
	srv.log(ctx).Info("Review created",
		slog.String("reviewID", review.ID.String()), slog.String("bookingID", booking.ID.String()))

	srv.recalculateRating(ctx, review.ServiceID)

	return review, nil
}

// GetUserBookingReview returns the review the caller left on a booking, or
// (nil, nil) when none exists. "Not reviewed yet" is a normal state.
func (srv *reviewService) GetUserBookingReview(ctx context.Context, reviewerID, bookingID uuid.UUID) (*entity.Review, error) {
	review, err := srv.reviewRepo.FindByBookingAndReviewer(ctx, bookingID, reviewerID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, nil
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load review")
	}

	return review, nil
}

// UpdateReview edits a review the caller wrote. The edit window is enforced
// here against server time, never trusted from the client.
func (srv *reviewService) UpdateReview(ctx context.Context, reviewerID, reviewID uuid.UUID, input *usecase.UpdateReviewInput) (*entity.Review, error) {
	if !entity.IsValidRating(input.Rating) {
		return nil, domainerrors.ErrValidationFailed.WithDetails("rating must be between 1 and 5")
	}

	review, err := srv.loadOwnedReview(ctx, reviewerID, reviewID)
	if err != nil {
		return nil, err
	}
	if !review.Editable(time.Now()) {
		return nil, domainerrors.ErrReviewEditWindowClosed
	}

	review.Rating = input.Rating
	review.ReviewText = input.ReviewText
	if err := srv.reviewRepo.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, domainerrors.ErrReviewNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to update review")
	}

	srv.log(ctx).Info("Review updated", slog.String("reviewID", reviewID.String()))
	srv.recalculateRating(ctx, review.ServiceID)

	return review, nil
}

// DeleteReview removes a review the caller wrote. Deletion has no time
// window; only edits do.
func (srv *reviewService) DeleteReview(ctx context.Context, reviewerID, reviewID uuid.UUID) error {
	review, err := srv.loadOwnedReview(ctx, reviewerID, reviewID)
	if err != nil {
		return err
	}

	if err := srv.reviewRepo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return domainerrors.ErrReviewNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to delete review")
	}

	srv.log(ctx).Info("Review deleted", slog.String("reviewID", reviewID.String()))
	srv.recalculateRating(ctx, review.ServiceID)

	return nil
}

func (srv *reviewService) loadOwnedReview(ctx context.Context, reviewerID, reviewID uuid.UUID) (*entity.Review, error) {
	review, err := srv.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, domainerrors.ErrReviewNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load review")
	}
	if review.ReviewerID != reviewerID {
		return nil, domainerrors.ErrForbidden.WithDetails("review belongs to another user")
	}

	return review, nil
}

// GetServiceReviews returns all reviews of a listing, newest first.
func (srv *reviewService) GetServiceReviews(ctx context.Context, serviceID uuid.UUID) ([]*entity.Review, error) {
	reviews, err := srv.reviewRepo.FindByService(ctx, serviceID)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load reviews")
	}

	return reviews, nil
}

// GetProviderReviews returns all reviews against a provider, newest first.
func (srv *reviewService) GetProviderReviews(ctx context.Context, providerID uuid.UUID) ([]*entity.Review, error) {
	reviews, err := srv.reviewRepo.FindByProvider(ctx, providerID)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load reviews")
	}

	return reviews, nil
}

// GetUserReviews returns all reviews the caller submitted, newest first.
func (srv *reviewService) GetUserReviews(ctx context.Context, reviewerID uuid.UUID) ([]*entity.Review, error) {
	reviews, err := srv.reviewRepo.FindByReviewer(ctx, reviewerID)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load reviews")
	}

	return reviews, nil
}

// recalculateRating refreshes the listing's aggregate rating from its
// current reviews. Best-effort; the review write already succeeded.
func (srv *reviewService) recalculateRating(ctx context.Context, serviceID uuid.UUID) {
	reviews, err := srv.reviewRepo.FindByService(ctx, serviceID)
	if err != nil {
		srv.log(ctx).Warn("Rating recalculation failed",
			slog.String("serviceID", serviceID.String()), slog.Any("error", err))

		return
	}

	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := 0.0
	if len(reviews) > 0 {
		avg = float64(sum) / float64(len(reviews))
	}

	if err := srv.serviceRepo.UpdateRating(ctx, serviceID, avg); err != nil {
		srv.log(ctx).Warn("Rating update failed",
			slog.String("serviceID", serviceID.String()), slog.Any("error", err))
	}
}
