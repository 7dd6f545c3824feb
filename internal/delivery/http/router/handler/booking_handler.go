package handler

import (
	"log/slog"
	"net/http"
	"time"

	httpmiddleware "nearby/internal/delivery/http/middleware"
	"nearby/internal/delivery/http/response"
	"nearby/internal/domain/entity"
	"nearby/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type createBookingRequest struct {
	ServiceID   string `json:"service_id" validate:"required,uuid"`
	BookingDate string `json:"booking_date" validate:"required"`
	Notes       string `json:"notes" validate:"omitempty,max=1000"`
}

type updateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

// BookingHandler holds dependencies for booking-related handlers.
type BookingHandler struct {
	uc     usecase.BookingUsecase
	logger *slog.Logger
}

// NewBookingHandler is the constructor for BookingHandler, injected by Fx.
func NewBookingHandler(uc usecase.BookingUsecase, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{
		uc:     uc,
		logger: logger,
	}
}

// CreateBooking requests an appointment on a listing.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid booking input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid service ID")
	}

	bookingDate, err := time.Parse(time.RFC3339, req.BookingDate)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Booking date must be RFC 3339")
	}

	booking, err := h.uc.CreateBooking(c.Request().Context(), userID, &usecase.CreateBookingInput{
		ServiceID:   serviceID,
		BookingDate: bookingDate,
		Notes:       req.Notes,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, booking, "Booking created successfully")
}

// GetUserBookings returns the caller's bookings as a customer.
func (h *BookingHandler) GetUserBookings(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	bookings, err := h.uc.GetUserBookings(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, bookings, "")
}

// GetProviderBookings returns the caller's incoming bookings as a provider.
func (h *BookingHandler) GetProviderBookings(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	bookings, err := h.uc.GetProviderBookings(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, bookings, "")
}

// UpdateBookingStatus moves a booking through its lifecycle.
func (h *BookingHandler) UpdateBookingStatus(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid booking ID")
	}

	var req updateBookingStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	booking, err := h.uc.UpdateBookingStatus(c.Request().Context(), userID, bookingID, &usecase.UpdateBookingStatusInput{
		Status: entity.BookingStatus(req.Status),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, booking, "Booking status updated successfully")
}
