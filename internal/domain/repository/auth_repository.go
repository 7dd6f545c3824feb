package repository

import (
	"context"
	"errors"

	"nearby/internal/domain/entity"
)

// ErrAuthNotFound is returned when no authentication record matches.
var ErrAuthNotFound = errors.New("authentication not found")

// AuthRepository defines the operations for credential persistence.
type AuthRepository interface {
	// FindAuthentication looks up a credential by provider and the
	// provider-specific user ID (the email address for the email provider).
	FindAuthentication(ctx context.Context, provider entity.ProviderType, providerUserID string) (*entity.Authentication, error)

	// CreateAuthentication persists a new credential for a user.
	CreateAuthentication(ctx context.Context, auth *entity.Authentication) error
}
