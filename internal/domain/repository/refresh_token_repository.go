package repository

import (
	"context"
	"errors"

	"nearby/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrRefreshTokenNotFound is returned when no refresh token matches.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// ErrRefreshTokenExpired is returned for a matching but expired token.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// RefreshTokenRepository defines the operations for session persistence.
type RefreshTokenRepository interface {
	// CreateRefreshToken persists a new refresh token, representing a session.
	CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error

	// FindRefreshTokenByHash retrieves a token by its stored hash.
	// Returns ErrRefreshTokenExpired for a token past its expiry.
	FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// DeleteRefreshTokenByHash revokes a single session.
	DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error

	// DeleteRefreshTokensByUserID revokes every session of a user.
	DeleteRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error
}
