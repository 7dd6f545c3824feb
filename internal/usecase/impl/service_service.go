package impl

import (
	"context"
	"log/slog"

	"nearby/internal/delivery/reqctx"
	"nearby/internal/domain/constants"
	"nearby/internal/domain/entity"
	domainerrors "nearby/internal/domain/errors"
	"nearby/internal/domain/repository"
	"nearby/internal/domain/service"
	"nearby/internal/infra/metrics"
	"nearby/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// serviceService implements the ServiceUsecase interface.
type serviceService struct {
	serviceRepo repository.ServiceRepository
	storage     service.ObjectStorage
	qrcode      service.QRCodeService
	collector   metrics.Collector
	logger      *slog.Logger
}

// ServiceServiceParams holds dependencies for serviceService, injected by Fx.
type ServiceServiceParams struct {
	fx.In

	ServiceRepo repository.ServiceRepository
	Storage     service.ObjectStorage
	QRCode      service.QRCodeService
	Collector   metrics.Collector
	Logger      *slog.Logger
}

// NewServiceService is the constructor for serviceService.
func NewServiceService(params ServiceServiceParams) usecase.ServiceUsecase {
	return &serviceService{
		serviceRepo: params.ServiceRepo,
		storage:     params.Storage,
		qrcode:      params.QRCode,
		collector:   params.Collector,
		logger:      params.Logger,
	}
}

func (srv *serviceService) log(ctx context.Context) *slog.Logger {
	return reqctx.Logger(ctx, srv.logger)
}

// CreateService publishes a new listing. The image, when provided, is
// uploaded first; if the upload fails no listing row is written.
func (srv *serviceService) CreateService(ctx context.Context, ownerID uuid.UUID, input *usecase.CreateServiceInput) (*entity.Service, error) {
	if !entity.IsValidCategory(input.Category) {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown service category")
	}

	listing := &entity.Service{
		UserID:      ownerID,
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		Price:       input.Price,
		Status:      entity.ServiceStatusActive,
	}

	if input.Image != nil {
		url, err := srv.uploadListingImage(ctx, ownerID, input.Image)
		if err != nil {
			return nil, err
		}
		listing.ImageURL = url
	}

	if err := srv.serviceRepo.Create(ctx, listing); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create service")
	}

	srv.collector.RecordServiceCreated(listing.Category)
	srv.log(ctx).Info("Service created",
		slog.String("serviceID", listing.ID.String()), slog.String("ownerID", ownerID.String()))

	return listing, nil
}

func (srv *serviceService) uploadListingImage(ctx context.Context, ownerID uuid.UUID, image *usecase.ServiceImageInput) (string, error) {
	path := objectPath(ownerID, image.Filename)

	url, err := srv.storage.Upload(ctx, constants.BucketServiceImages, path, image.Data, image.ContentType)
	if err != nil {
		srv.log(ctx).Error("Listing image upload failed",
			slog.String("ownerID", ownerID.String()), slog.Any("error", err))

		return "", domainerrors.ErrImageUploadFailed.WithDetails(err.Error())
	}

	return url, nil
}

// GetUserServices returns every listing a provider owns, any status.
func (srv *serviceService) GetUserServices(ctx context.Context, ownerID uuid.UUID) ([]*entity.Service, error) {
	listings, err := srv.serviceRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load services")
	}

	return listings, nil
}

// GetAllServices returns the browsable catalog: active listings only.
func (srv *serviceService) GetAllServices(ctx context.Context, category string) ([]*entity.Service, error) {
	if category != "" && !entity.IsValidCategory(category) {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown service category")
	}

	listings, err := srv.serviceRepo.FindAllActive(ctx, category)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load services")
	}

	return listings, nil
}

// GetServiceByID returns an active listing. An inactive listing answers
// exactly like a missing one.
func (srv *serviceService) GetServiceByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	listing, err := srv.serviceRepo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, domainerrors.ErrServiceNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load service")
	}

	return listing, nil
}

// UpdateService applies a partial update to a listing the caller owns.
func (srv *serviceService) UpdateService(ctx context.Context, ownerID, serviceID uuid.UUID, input *usecase.UpdateServiceInput) (*entity.Service, error) {
	listing, err := srv.loadOwnedListing(ctx, ownerID, serviceID)
	if err != nil {
		return nil, err
	}

	patch := &entity.Service{ID: listing.ID}
	if input.Name != nil {
		patch.Name = *input.Name
	}
	if input.Category != nil {
		if !entity.IsValidCategory(*input.Category) {
			return nil, domainerrors.ErrValidationFailed.WithDetails("unknown service category")
		}
		patch.Category = *input.Category
	}
	if input.Description != nil {
		patch.Description = *input.Description
	}
	if input.Price != nil {
		patch.Price = *input.Price
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, domainerrors.ErrValidationFailed.WithDetails("unknown service status")
		}
		patch.Status = *input.Status
	}
	if input.Image != nil {
		url, uploadErr := srv.uploadListingImage(ctx, ownerID, input.Image)
		if uploadErr != nil {
			return nil, uploadErr
		}
		patch.ImageURL = url
	}

	if err := srv.serviceRepo.Update(ctx, patch); err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, domainerrors.ErrServiceNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to update service")
	}

	srv.log(ctx).Info("Service updated", slog.String("serviceID", serviceID.String()))

	return patch, nil
}

// DeleteService removes a listing the caller owns. The stored image object
// is removed best-effort.
func (srv *serviceService) DeleteService(ctx context.Context, ownerID, serviceID uuid.UUID) error {
	listing, err := srv.loadOwnedListing(ctx, ownerID, serviceID)
	if err != nil {
		return err
	}

	if listing.ImageURL != "" {
		if path, ok := storedObjectPath(srv.storage, constants.BucketServiceImages, listing.ImageURL); ok {
			if err := srv.storage.Delete(ctx, constants.BucketServiceImages, path); err != nil {
				srv.log(ctx).Warn("Listing image removal failed",
					slog.String("serviceID", serviceID.String()), slog.Any("error", err))
			}
		}
	}

	if err := srv.serviceRepo.Delete(ctx, serviceID); err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return domainerrors.ErrServiceNotFound
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to delete service")
	}

	srv.log(ctx).Info("Service deleted", slog.String("serviceID", serviceID.String()))

	return nil
}

// loadOwnedListing loads a listing by ID and enforces ownership. A listing
// owned by someone else is forbidden, not hidden.
func (srv *serviceService) loadOwnedListing(ctx context.Context, ownerID, serviceID uuid.UUID) (*entity.Service, error) {
	listing, err := srv.serviceRepo.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, domainerrors.ErrServiceNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load service")
	}
	if listing.UserID != ownerID {
		return nil, domainerrors.ErrForbidden.WithDetails("service belongs to another provider")
	}

	return listing, nil
}

// ListCategories returns the fixed catalog.
func (srv *serviceService) ListCategories(_ context.Context) []string {
	categories := make([]string, len(entity.ServiceCategories))
	copy(categories, entity.ServiceCategories)

	return categories
}

// ServiceQR renders a PNG QR code for an active listing's booking page.
func (srv *serviceService) ServiceQR(ctx context.Context, serviceID uuid.UUID) ([]byte, error) {
	if _, err := srv.GetServiceByID(ctx, serviceID); err != nil {
		return nil, err
	}

	png, err := srv.qrcode.GenerateServiceQR(serviceID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate QR code")
	}

	return png, nil
}
