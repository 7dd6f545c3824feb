// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"nearby/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
// Metadata fields (name) are stored on the user record.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// GoogleCallbackInput carries the provider callback parameters.
type GoogleCallbackInput struct {
	Code  string
	State string
}

// RefreshTokenInput carries the raw refresh token presented by the client.
type RefreshTokenInput struct {
	RefreshToken string
}

// LogoutInput carries the refresh token of the session being ended.
type LogoutInput struct {
	RefreshToken string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// RefreshTokenOutput returns the replacement access token.
type RefreshTokenOutput struct {
	AccessToken string
}

// LogoutResult reports what logout actually did. Most callers ignore it,
// but the outcome is always explicit.
type LogoutResult struct {
	SessionRevoked bool
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)

	// GoogleAuthURL starts the redirect-based Google login flow.
	GoogleAuthURL(ctx context.Context) (string, error)
	// GoogleCallback completes it, creating the account on first login.
	GoogleCallback(ctx context.Context, input *GoogleCallbackInput) (*LoginOutput, error)

	RefreshToken(ctx context.Context, input *RefreshTokenInput) (*RefreshTokenOutput, error)

	// Logout revokes the presented session. The result is explicit; an
	// already-revoked session is reported, not raised.
	Logout(ctx context.Context, input *LogoutInput) (*LogoutResult, error)

	// GetCurrentIdentity returns the session-facing identity of a user:
	// auth fields shallow-merged with the profile, profile winning.
	GetCurrentIdentity(ctx context.Context, userID uuid.UUID) (*entity.Identity, error)
}
