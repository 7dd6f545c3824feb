package usecase

import (
	"context"

	"github.com/google/uuid"

	"nearby/internal/domain/entity"
)

// CreateServiceInput defines the data required to publish a new listing.
// Image is optional; when present it is uploaded before the insert and the
// listing is not created if the upload fails.
type CreateServiceInput struct {
	Name        string
	Category    string
	Description string
	Price       string
	Image       *ServiceImageInput
}

// ServiceImageInput carries a listing image upload payload.
type ServiceImageInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UpdateServiceInput carries a partial listing update. Nil fields are left
// untouched.
type UpdateServiceInput struct {
	Name        *string
	Category    *string
	Description *string
	Price       *string
	Status      *entity.ServiceStatus
	Image       *ServiceImageInput
}

// ServiceUsecase defines the business operations on service listings.
type ServiceUsecase interface {
	// CreateService publishes a new listing owned by the given provider.
	CreateService(ctx context.Context, ownerID uuid.UUID, input *CreateServiceInput) (*entity.Service, error)

	// GetUserServices returns every listing a provider owns, any status.
	GetUserServices(ctx context.Context, ownerID uuid.UUID) ([]*entity.Service, error)

	// GetAllServices returns all active listings, optionally filtered by
	// category (empty string means no filter).
	GetAllServices(ctx context.Context, category string) ([]*entity.Service, error)

	// GetServiceByID returns an active listing. Inactive listings are
	// indistinguishable from missing ones here.
	GetServiceByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)

	// UpdateService applies a partial update to a listing the caller owns.
	UpdateService(ctx context.Context, ownerID, serviceID uuid.UUID, input *UpdateServiceInput) (*entity.Service, error)

	// DeleteService removes a listing the caller owns.
	DeleteService(ctx context.Context, ownerID, serviceID uuid.UUID) error

	// ListCategories returns the fixed category catalog.
	ListCategories(ctx context.Context) []string

	// ServiceQR renders a PNG QR code pointing at the listing's booking page.
	ServiceQR(ctx context.Context, serviceID uuid.UUID) ([]byte, error)
}
