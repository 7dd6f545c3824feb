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

// serviceRepository implements the repository.ServiceRepository interface using GORM.
type serviceRepository struct {
	db *gorm.DB
}

// NewServiceRepository is the constructor for serviceRepository.
func NewServiceRepository(db *gorm.DB) repository.ServiceRepository {
	return &serviceRepository{
		db: db,
	}
}

// Create persists a new listing.
func (repo *serviceRepository) Create(ctx context.Context, service *entity.Service) error {
	serviceM := fromServiceDomain(service)

	if err := repo.db.WithContext(ctx).Create(serviceM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("listing references unknown provider")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("missing required listing information")
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("listing violates a data constraint")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create service")
	}

	service.ID = serviceM.ID
	service.CreatedAt = serviceM.CreatedAt
	service.UpdatedAt = serviceM.UpdatedAt

	return nil
}

// FindByID retrieves a listing by ID regardless of status.
func (repo *serviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	var serviceM model.ServiceModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&serviceM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrServiceNotFound
		}

		return nil, errors.Wrap(err, "failed to find service by ID")
	}

	return toServiceDomain(&serviceM), nil
}

// FindActiveByID retrieves a listing by ID only when it is active.
// An inactive listing is indistinguishable from a missing one here.
func (repo *serviceRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	var serviceM model.ServiceModel

	if err := repo.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, string(entity.ServiceStatusActive)).
		First(&serviceM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrServiceNotFound
		}

		return nil, errors.Wrap(err, "failed to find active service by ID")
	}

	return toServiceDomain(&serviceM), nil
}

// FindByOwner retrieves every listing owned by a provider, any status, newest first.
func (repo *serviceRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Service, error) {
	var serviceModels []model.ServiceModel

	if err := repo.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&serviceModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find services by owner")
	}

	return toServiceDomainSlice(serviceModels), nil
}

// FindAllActive retrieves all active listings, optionally filtered by category.
// Browsing is the hottest read path, so it is pinned to replicas when any are
// configured.
func (repo *serviceRepository) FindAllActive(ctx context.Context, category string) ([]*entity.Service, error) {
	var serviceModels []model.ServiceModel

	query := repo.db.WithContext(ctx).
		Clauses(dbresolver.Read).
		Where("status = ?", string(entity.ServiceStatusActive))
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Order("created_at DESC").Find(&serviceModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to find active services")
	}

	return toServiceDomainSlice(serviceModels), nil
}

// SummariesByIDs retrieves listing summaries for a set of IDs in one query.
func (repo *serviceRepository) SummariesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.ServiceSummary, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var serviceModels []model.ServiceModel

	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Read).
		Select("id", "name", "price", "category").
		Where("id IN ?", ids).
		Find(&serviceModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load service summaries")
	}

	summaries := make([]*entity.ServiceSummary, 0, len(serviceModels))
	for i := range serviceModels {
		m := &serviceModels[i]
		summaries = append(summaries, &entity.ServiceSummary{
			ID:       m.ID,
			Name:     m.Name,
			Price:    m.Price,
			Category: m.Category,
		})
	}

	return summaries, nil
}

// Update applies the non-zero fields of the given listing by ID.
func (repo *serviceRepository) Update(ctx context.Context, service *entity.Service) error {
	serviceM := fromServiceDomain(service)

	result := repo.db.WithContext(ctx).
		Model(&model.ServiceModel{}).
		Where("id = ?", service.ID).
		Updates(serviceM)
	if result.Error != nil {
		if isCheckConstraintViolation(result.Error) {
			return domainerrors.ErrValidationFailed.WithDetails("listing violates a data constraint")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update service")
	}
	if result.RowsAffected == 0 {
		return repository.ErrServiceNotFound
	}

	// Re-read so callers observe the stored state, including UpdatedAt.
	var updated model.ServiceModel
	if err := repo.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Where("id = ?", service.ID).
		First(&updated).Error; err != nil {
		return errors.Wrap(err, "failed to reload updated service")
	}
	*service = *toServiceDomain(&updated)

	return nil
}

// UpdateRating overwrites the listing's aggregate rating. Uses a single
// column update so a zero rating (no reviews left) is written too.
func (repo *serviceRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	result := repo.db.WithContext(ctx).
		Model(&model.ServiceModel{}).
		Where("id = ?", id).
		Update("rating", rating)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update service rating")
	}
	if result.RowsAffected == 0 {
		return repository.ErrServiceNotFound
	}

	return nil
}

// Delete removes a listing by ID.
func (repo *serviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ServiceModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete service")
	}
	if result.RowsAffected == 0 {
		return repository.ErrServiceNotFound
	}

	return nil
}

// toServiceDomain converts a GORM ServiceModel to a domain Service entity.
func toServiceDomain(data *model.ServiceModel) *entity.Service {
	if data == nil {
		return nil
	}

	return &entity.Service{
		ID:          data.ID,
		UserID:      data.UserID,
		Name:        data.Name,
		Category:    data.Category,
		Description: data.Description,
		Price:       data.Price,
		Rating:      data.Rating,
		Status:      entity.ServiceStatus(data.Status),
		ImageURL:    data.ImageURL,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

// fromServiceDomain converts a domain Service entity to a GORM ServiceModel.
func fromServiceDomain(data *entity.Service) *model.ServiceModel {
	if data == nil {
		return nil
	}

	return &model.ServiceModel{
		ID:          data.ID,
		UserID:      data.UserID,
		Name:        data.Name,
		Category:    data.Category,
		Description: data.Description,
		Price:       data.Price,
		Rating:      data.Rating,
		Status:      string(data.Status),
		ImageURL:    data.ImageURL,
	}
}

func toServiceDomainSlice(models []model.ServiceModel) []*entity.Service {
	services := make([]*entity.Service, 0, len(models))
	for i := range models {
		services = append(services, toServiceDomain(&models[i]))
	}

	return services
}
