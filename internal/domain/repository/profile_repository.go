package repository

import (
	"context"
	"errors"

	"nearby/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrProfileNotFound signals that the user has no profile row yet.
// Callers decide whether that is an error; for most reads it is not.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository defines the operations for profile persistence.
type ProfileRepository interface {
	// FindByUserID retrieves the profile belonging to a user.
	// Returns ErrProfileNotFound when no row exists.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)

	// Upsert creates or replaces the profile keyed on its user ID,
	// stamping UpdatedAt. Last write wins; there is no optimistic lock.
	Upsert(ctx context.Context, profile *entity.Profile) error
}
