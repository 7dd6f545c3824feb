package handler

import (
	"log/slog"
	"net/http"

	httpmiddleware "nearby/internal/delivery/http/middleware"
	"nearby/internal/delivery/http/response"
	"nearby/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type createReviewRequest struct {
	BookingID  string `json:"booking_id" validate:"required,uuid"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	ReviewText string `json:"review_text" validate:"omitempty,max=2000"`
}

type updateReviewRequest struct {
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	ReviewText string `json:"review_text" validate:"omitempty,max=2000"`
}

// ReviewHandler holds dependencies for review-related handlers.
type ReviewHandler struct {
	uc     usecase.ReviewUsecase
	logger *slog.Logger
}

// NewReviewHandler is the constructor for ReviewHandler, injected by Fx.
func NewReviewHandler(uc usecase.ReviewUsecase, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		uc:     uc,
		logger: logger,
	}
}

// CreateReview submits a review of a completed booking.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid booking ID")
	}

	review, err := h.uc.CreateReview(c.Request().Context(), userID, &usecase.CreateReviewInput{
		BookingID:  bookingID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, review, "Review submitted successfully")
}

// GetUserBookingReview returns the caller's review of a booking, empty when
// the booking has not been reviewed yet.
func (h *ReviewHandler) GetUserBookingReview(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid booking ID")
	}

	review, err := h.uc.GetUserBookingReview(c.Request().Context(), userID, bookingID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, review, "")
}

// UpdateReview edits a review the caller wrote.
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid review ID")
	}

	var req updateReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	review, err := h.uc.UpdateReview(c.Request().Context(), userID, reviewID, &usecase.UpdateReviewInput{
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, review, "Review updated successfully")
}

// DeleteReview removes a review the caller wrote.
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid review ID")
	}

	if err := h.uc.DeleteReview(c.Request().Context(), userID, reviewID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Review deleted successfully")
}

// GetServiceReviews returns all reviews of a listing.
func (h *ReviewHandler) GetServiceReviews(c echo.Context) error {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid service ID")
	}

	reviews, err := h.uc.GetServiceReviews(c.Request().Context(), serviceID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, reviews, "")
}

// GetProviderReviews returns all reviews against a provider.
func (h *ReviewHandler) GetProviderReviews(c echo.Context) error {
	providerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid provider ID")
	}

	reviews, err := h.uc.GetProviderReviews(c.Request().Context(), providerID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, reviews, "")
}

// GetUserReviews returns all reviews the caller submitted.
func (h *ReviewHandler) GetUserReviews(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	reviews, err := h.uc.GetUserReviews(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, reviews, "")
}
