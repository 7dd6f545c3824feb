package usecase

import (
	"context"

	"github.com/google/uuid"

	"nearby/internal/domain/entity"
)

// UpdateProfileInput carries the full replacement profile. Updates are
// whole-document; last write wins.
type UpdateProfileInput struct {
	Name        string
	Email       string
	Phone       string
	Location    string
	Bio         string
	DeviceToken string
}

// UploadProfileImageInput carries the avatar upload payload.
type UploadProfileImageInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadProfileImageOutput returns the public URL of the stored avatar.
type UploadProfileImageOutput struct {
	AvatarURL string
}

// ProfileUsecase defines the business operations on user profiles.
type ProfileUsecase interface {
	// GetProfile returns the user's profile, or (nil, nil) when the user
	// has not created one yet. A missing profile is not an error.
	GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)

	// UpdateProfile creates or replaces the user's profile.
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*entity.Profile, error)

	// UploadProfileImage stores a new avatar and records its URL on the
	// profile, creating the profile if the user has none.
	UploadProfileImage(ctx context.Context, userID uuid.UUID, input *UploadProfileImageInput) (*UploadProfileImageOutput, error)

	// DeleteProfileImage removes the stored avatar and clears the URL.
	DeleteProfileImage(ctx context.Context, userID uuid.UUID) error
}
