package repository

import (
	"context"
	"errors"

	"nearby/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrServiceNotFound is returned when no service listing matches.
// An inactive listing looked up through an active-only read also maps here;
// browsing callers cannot tell the two cases apart on purpose.
var ErrServiceNotFound = errors.New("service not found")

// ServiceRepository defines the operations for service listing persistence.
type ServiceRepository interface {
	// Create persists a new listing.
	Create(ctx context.Context, service *entity.Service) error

	// FindByID retrieves a listing by ID regardless of status.
	// Used by owner and internal flows, not by browsing.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)

	// FindActiveByID retrieves a listing by ID only when it is active.
	FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Service, error)

	// FindByOwner retrieves every listing owned by a provider, any status.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Service, error)

	// FindAllActive retrieves all active listings, optionally filtered by
	// category (empty string means no filter).
	FindAllActive(ctx context.Context, category string) ([]*entity.Service, error)

	// SummariesByIDs retrieves listing summaries for a set of IDs in one
	// query, for booking enrichment.
	SummariesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.ServiceSummary, error)

	// Update applies the non-zero fields of the given listing by ID.
	Update(ctx context.Context, service *entity.Service) error

	// UpdateRating overwrites the listing's aggregate rating. A zero rating
	// is a valid value here (no reviews left), unlike in Update.
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error

	// Delete removes a listing by ID.
	Delete(ctx context.Context, id uuid.UUID) error
}
