package handler

import (
	"io"
	"log/slog"
	"net/http"

	httpmiddleware "nearby/internal/delivery/http/middleware"
	"nearby/internal/delivery/http/response"
	"nearby/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// maxAvatarSize caps avatar uploads at 5 MiB.
const maxAvatarSize = 5 << 20

type updateProfileRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"omitempty,max=30"`
	Location    string `json:"location" validate:"omitempty,max=200"`
	Bio         string `json:"bio" validate:"omitempty,max=1000"`
	DeviceToken string `json:"device_token" validate:"omitempty,max=512"`
}

// ProfileHandler holds dependencies for profile-related handlers.
type ProfileHandler struct {
	uc     usecase.ProfileUsecase
	logger *slog.Logger
}

// NewProfileHandler is the constructor for ProfileHandler, injected by Fx.
func NewProfileHandler(uc usecase.ProfileUsecase, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		uc:     uc,
		logger: logger,
	}
}

// GetProfile returns the caller's profile. A user without a profile gets
// an empty payload rather than a 404.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	profile, err := h.uc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile, "")
}

// UpdateProfile replaces the caller's profile with the submitted document.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.uc.UpdateProfile(c.Request().Context(), userID, &usecase.UpdateProfileInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Location:    req.Location,
		Bio:         req.Bio,
		DeviceToken: req.DeviceToken,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile, "Profile updated successfully")
}

// UploadProfileImage stores a new avatar from a multipart form field
// named "image".
func (h *ProfileHandler) UploadProfileImage(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Missing image file")
	}
	if fileHeader.Size > maxAvatarSize {
		return response.BadRequest(c, "FILE_TOO_LARGE", "Image exceeds the 5MB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.WithStack(err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize))
	if err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.UploadProfileImage(c.Request().Context(), userID, &usecase.UploadProfileImageInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Profile image uploaded successfully")
}

// DeleteProfileImage removes the caller's avatar.
func (h *ProfileHandler) DeleteProfileImage(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	if err := h.uc.DeleteProfileImage(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Profile image deleted successfully")
}
