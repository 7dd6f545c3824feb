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
	"gorm.io/plugin/dbresolver"
)

// bookingRepository implements the repository.BookingRepository interface using GORM.
type bookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository is the constructor for bookingRepository.
func NewBookingRepository(db *gorm.DB) repository.BookingRepository {
	return &bookingRepository{
		db: db,
	}
}

// Create persists a new booking.
func (repo *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	bookingM := fromBookingDomain(booking)

	if err := repo.db.WithContext(ctx).Create(bookingM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrServiceNotFound.WrapMessage("booking references unknown service or user")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("missing required booking information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create booking")
	}

	booking.ID = bookingM.ID
	booking.CreatedAt = bookingM.CreatedAt
	booking.UpdatedAt = bookingM.UpdatedAt

	return nil
}

// FindByID retrieves a booking by its unique ID.
func (repo *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	var bookingM model.BookingModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&bookingM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBookingNotFound
		}

		return nil, errors.Wrap(err, "failed to find booking by ID")
	}

	return toBookingDomain(&bookingM), nil
}

// FindByCustomer retrieves a customer's bookings, newest booking date first.
func (repo *bookingRepository) FindByCustomer(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	var bookingModels []model.BookingModel

	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Read).
		Where("user_id = ?", userID).
		Order("booking_date DESC").
		Find(&bookingModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find bookings by customer")
	}

	return toBookingDomainSlice(bookingModels), nil
}

// FindByProvider retrieves a provider's incoming bookings, newest booking date first.
func (repo *bookingRepository) FindByProvider(ctx context.Context, providerID uuid.UUID) ([]*entity.Booking, error) {
	var bookingModels []model.BookingModel

	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Read).
		Where("service_provider_id = ?", providerID).
		Order("booking_date DESC").
		Find(&bookingModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find bookings by provider")
	}

	return toBookingDomainSlice(bookingModels), nil
}

// UpdateStatus overwrites the booking status and returns the stored booking.
// The read-after-write is pinned to the primary so the caller never sees a
// stale replica row.
func (repo *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) (*entity.Booking, error) {
	result := repo.db.WithContext(ctx).
		Model(&model.BookingModel{}).
		Where("id = ?", id).
		Update("booking_status", string(status))
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return nil, domainerrors.ErrValidationFailed.WithDetails("unknown booking status")
		}

		return nil, domainerrors.NewDatabaseExecuteError(result.Error, "failed to update booking status")
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrBookingNotFound
	}

	var bookingM model.BookingModel
	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("id = ?", id).
		First(&bookingM).Error; err != nil {
		return nil, errors.Wrap(err, "failed to reload updated booking")
	}

	return toBookingDomain(&bookingM), nil
}

// toBookingDomain converts a GORM BookingModel to a domain Booking entity.
func toBookingDomain(data *model.BookingModel) *entity.Booking {
	if data == nil {
		return nil
	}

	return &entity.Booking{
		ID:                data.ID,
		UserID:            data.UserID,
		ServiceID:         data.ServiceID,
		ServiceProviderID: data.ServiceProviderID,
		BookingDate:       data.BookingDate,
		BookingNotes:      data.BookingNotes,
		BookingStatus:     entity.BookingStatus(data.BookingStatus),
		UserEmail:         data.UserEmail,
		UserFullName:      data.UserFullName,
		UserPhone:         data.UserPhone,
		UserLocation:      data.UserLocation,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}
}

// fromBookingDomain converts a domain Booking entity to a GORM BookingModel.
func fromBookingDomain(data *entity.Booking) *model.BookingModel {
	if data == nil {
		return nil
	}

	return &model.BookingModel{
		ID:                data.ID,
		UserID:            data.UserID,
		ServiceID:         data.ServiceID,
		ServiceProviderID: data.ServiceProviderID,
		BookingDate:       data.BookingDate,
		BookingNotes:      data.BookingNotes,
		BookingStatus:     string(data.BookingStatus),
		UserEmail:         data.UserEmail,
		UserFullName:      data.UserFullName,
		UserPhone:         data.UserPhone,
		UserLocation:      data.UserLocation,
	}
}

func toBookingDomainSlice(models []model.BookingModel) []*entity.Booking {
	bookings := make([]*entity.Booking, 0, len(models))
	for i := range models {
		bookings = append(bookings, toBookingDomain(&models[i]))
	}

	return bookings
}
