// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"nearby/internal/domain/entity"
	domainerrors "nearby/internal/domain/errors"
	"nearby/internal/domain/repository"
	"nearby/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// reviewRepository implements the repository.ReviewRepository interface using GORM.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{
		db: db,
	}
}

// Create persists a new review.
func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	if err := repo.db.WithContext(ctx).Create(reviewM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrBookingNotFound.WrapMessage("review references unknown booking")
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("rating is outside the accepted range")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("missing required review information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}

	review.ID = reviewM.ID
	review.CreatedAt = reviewM.CreatedAt
	review.UpdatedAt = reviewM.UpdatedAt

	return nil
}

// FindByID retrieves a review by its unique ID.
func (repo *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var reviewM model.ReviewModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&reviewM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review by ID")
	}

	return toReviewDomain(&reviewM), nil
}

// FindByBookingAndReviewer retrieves the review a user left on a booking.
func (repo *reviewRepository) FindByBookingAndReviewer(ctx context.Context, bookingID, reviewerID uuid.UUID) (*entity.Review, error) {
	var reviewM model.ReviewModel

	if err := repo.db.WithContext(ctx).
		Where("booking_id = ? AND reviewer_id = ?", bookingID, reviewerID).
		Order("created_at DESC").
		First(&reviewM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review by booking and reviewer")
	}

	return toReviewDomain(&reviewM), nil
}

// FindByService retrieves all reviews of a listing, newest first.
func (repo *reviewRepository) FindByService(ctx context.Context, serviceID uuid.UUID) ([]*entity.Review, error) {
	return repo.findAll(ctx, "service_id = ?", serviceID)
}

// FindByProvider retrieves all reviews against a provider, newest first.
func (repo *reviewRepository) FindByProvider(ctx context.Context, providerID uuid.UUID) ([]*entity.Review, error) {
	return repo.findAll(ctx, "service_provider_id = ?", providerID)
}

// FindByReviewer retrieves all reviews a user submitted, newest first.
func (repo *reviewRepository) FindByReviewer(ctx context.Context, reviewerID uuid.UUID) ([]*entity.Review, error) {
	return repo.findAll(ctx, "reviewer_id = ?", reviewerID)
}

func (repo *reviewRepository) findAll(ctx context.Context, cond string, arg any) ([]*entity.Review, error) {
	var reviewModels []model.ReviewModel

	if err := repo.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at DESC").
		Find(&reviewModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find reviews")
	}

	reviews := make([]*entity.Review, 0, len(reviewModels))
	for i := range reviewModels {
		reviews = append(reviews, toReviewDomain(&reviewModels[i]))
	}

	return reviews, nil
}

// Update applies rating and text changes by ID and stamps UpdatedAt.
func (repo *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Where("id = ?", review.ID).
		Updates(map[string]any{
			"rating":      review.Rating,
			"review_text": review.ReviewText,
		})
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WithDetails("rating is outside the accepted range")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update review")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	var updated model.ReviewModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", review.ID).
		First(&updated).Error; err != nil {
		return errors.Wrap(err, "failed to reload updated review")
	}
	*review = *toReviewDomain(&updated)

	return nil
}

// Delete removes a review by ID.
func (repo *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ReviewModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete review")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// toReviewDomain converts a GORM ReviewModel to a domain Review entity.
func toReviewDomain(data *model.ReviewModel) *entity.Review {
	if data == nil {
		return nil
	}

	return &entity.Review{
		ID:                data.ID,
		BookingID:         data.BookingID,
		ServiceID:         data.ServiceID,
		ServiceProviderID: data.ServiceProviderID,
		ReviewerID:        data.ReviewerID,
		Rating:            data.Rating,
		ReviewText:        data.ReviewText,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

// fromReviewDomain converts a domain Review entity to a GORM ReviewModel.
func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	if data == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:                data.ID,
		BookingID:         data.BookingID,
		ServiceID:         data.ServiceID,
		ServiceProviderID: data.ServiceProviderID,
		ReviewerID:        data.ReviewerID,
		Rating:            data.Rating,
		ReviewText:        data.ReviewText,
	}
}
