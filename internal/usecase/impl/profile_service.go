package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"nearby/internal/delivery/reqctx"
	"nearby/internal/domain/constants"
	"nearby/internal/domain/entity"
	domainerrors "nearby/internal/domain/errors"
	"nearby/internal/domain/repository"
	"nearby/internal/domain/service"
	"nearby/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	profileRepo repository.ProfileRepository
	storage     service.ObjectStorage
	logger      *slog.Logger
}

// ProfileServiceParams holds dependencies for profileService, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	ProfileRepo repository.ProfileRepository
	Storage     service.ObjectStorage
	Logger      *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		profileRepo: params.ProfileRepo,
		storage:     params.Storage,
		logger:      params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return reqctx.Logger(ctx, srv.logger)
}

// GetProfile returns (nil, nil) when the user has not saved a profile yet.
// "No profile" is a normal state, not a failure.
func (srv *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	profile, err := srv.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, nil
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load profile")
	}

	return profile, nil
}

// UpdateProfile replaces the whole profile document. Last write wins.
func (srv *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *usecase.UpdateProfileInput) (*entity.Profile, error) {
	existing, err := srv.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &entity.Profile{
		UserID:      userID,
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Location:    input.Location,
		Bio:         input.Bio,
		DeviceToken: input.DeviceToken,
	}
	// The avatar is managed by the image operations, not the form update.
	if existing != nil {
		profile.AvatarURL = existing.AvatarURL
	}

	if err := srv.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to save profile")
	}

	srv.log(ctx).Info("Profile updated", slog.String("userID", userID.String()))

	return profile, nil
}

// UploadProfileImage stores a new avatar and records its public URL on the
// profile, creating the profile row if the user has none.
func (srv *profileService) UploadProfileImage(ctx context.Context, userID uuid.UUID, input *usecase.UploadProfileImageInput) (*usecase.UploadProfileImageOutput, error) {
	path := objectPath(userID, input.Filename)

	url, err := srv.storage.Upload(ctx, constants.BucketProfileImages, path, input.Data, input.ContentType)
	if err != nil {
		srv.log(ctx).Error("Avatar upload failed", slog.String("userID", userID.String()), slog.Any("error", err))

		return nil, domainerrors.ErrImageUploadFailed.WithDetails(err.Error())
	}

	profile, err := srv.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &entity.Profile{UserID: userID}
	}
	profile.AvatarURL = url

	if err := srv.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to save profile")
	}

	srv.log(ctx).Info("Avatar uploaded", slog.String("userID", userID.String()), slog.String("path", path))

	return &usecase.UploadProfileImageOutput{AvatarURL: url}, nil
}

// DeleteProfileImage removes the stored avatar object and clears the URL.
// Object removal is best-effort; the profile is cleared either way.
func (srv *profileService) DeleteProfileImage(ctx context.Context, userID uuid.UUID) error {
	profile, err := srv.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil || profile.AvatarURL == "" {
		return nil
	}

	if path, ok := storedObjectPath(srv.storage, constants.BucketProfileImages, profile.AvatarURL); ok {
		if err := srv.storage.Delete(ctx, constants.BucketProfileImages, path); err != nil {
			srv.log(ctx).Warn("Avatar object removal failed",
				slog.String("userID", userID.String()), slog.Any("error", err))
		}
	}

	profile.AvatarURL = ""
	if err := srv.profileRepo.Upsert(ctx, profile); err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to save profile")
	}

	return nil
}

// objectPath namespaces an upload under its owner with a timestamp prefix,
// so re-uploads never collide.
func objectPath(ownerID uuid.UUID, filename string) string {
	return fmt.Sprintf("%s/%d_%s", ownerID, time.Now().Unix(), filename)
}

// storedObjectPath recovers the storage path of an object from its public
// URL. Returns false for URLs this deployment did not issue.
func storedObjectPath(storage service.ObjectStorage, bucket, url string) (string, bool) {
	prefix := storage.PublicURL(bucket, "")
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}

	return strings.TrimPrefix(url, prefix), true
}
