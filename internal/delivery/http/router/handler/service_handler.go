package handler

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	httpmiddleware "nearby/internal/delivery/http/middleware"
	"nearby/internal/delivery/http/response"
	"nearby/internal/domain/entity"
	"nearby/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// maxListingImageSize caps listing image uploads at 5 MiB.
const maxListingImageSize = 5 << 20

// ServiceHandler holds dependencies for listing-related handlers.
type ServiceHandler struct {
	uc     usecase.ServiceUsecase
	logger *slog.Logger
}

// NewServiceHandler is the constructor for ServiceHandler, injected by Fx.
func NewServiceHandler(uc usecase.ServiceUsecase, logger *slog.Logger) *ServiceHandler {
	return &ServiceHandler{
		uc:     uc,
		logger: logger,
	}
}

// CreateService publishes a new listing. The request is a multipart form so
// the optional image rides along with the fields.
func (h *ServiceHandler) CreateService(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	name := c.FormValue("name")
	category := c.FormValue("category")
	if name == "" || category == "" {
		return response.BadRequest(c, "INVALID_INPUT", "Name and category are required")
	}

	image, err := listingImage(c)
	if err != nil {
		return err
	}

	listing, err := h.uc.CreateService(c.Request().Context(), userID, &usecase.CreateServiceInput{
		Name:        name,
		Category:    category,
		Description: c.FormValue("description"),
		Price:       c.FormValue("price"),
		Image:       image,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, listing, "Service created successfully")
}

// GetUserServices returns every listing the caller owns, any status.
func (h *ServiceHandler) GetUserServices(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	listings, err := h.uc.GetUserServices(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, listings, "")
}

// GetAllServices returns active listings, optionally filtered by the
// "category" query parameter.
func (h *ServiceHandler) GetAllServices(c echo.Context) error {
	listings, err := h.uc.GetAllServices(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, listings, "")
}

// GetServiceByID returns a single active listing.
func (h *ServiceHandler) GetServiceByID(c echo.Context) error {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid service ID")
	}

	listing, err := h.uc.GetServiceByID(c.Request().Context(), serviceID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, listing, "")
}

// UpdateService applies a partial update to a listing the caller owns.
// Absent form fields are left untouched.
func (h *ServiceHandler) UpdateService(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid service ID")
	}

	input := &usecase.UpdateServiceInput{
		Name:        formValuePtr(c, "name"),
		Category:    formValuePtr(c, "category"),
		Description: formValuePtr(c, "description"),
		Price:       formValuePtr(c, "price"),
	}
	if status := formValuePtr(c, "status"); status != nil {
		s := entity.ServiceStatus(*status)
		input.Status = &s
	}
	if input.Image, err = listingImage(c); err != nil {
		return err
	}

	listing, err := h.uc.UpdateService(c.Request().Context(), userID, serviceID, input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, listing, "Service updated successfully")
}

// DeleteService removes a listing the caller owns.
func (h *ServiceHandler) DeleteService(c echo.Context) error {
	userID, ok := httpmiddleware.UserID(c)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Missing authentication")
	}

	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid service ID")
	}

	if err := h.uc.DeleteService(c.Request().Context(), userID, serviceID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Service deleted successfully")
}

// ListCategories returns the fixed category catalog.
func (h *ServiceHandler) ListCategories(c echo.Context) error {
	return response.Success(c, http.StatusOK, h.uc.ListCategories(c.Request().Context()), "")
}

// ServiceQR renders the listing's booking QR code as a PNG.
func (h *ServiceHandler) ServiceQR(c echo.Context) error {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid service ID")
	}

	png, err := h.uc.ServiceQR(c.Request().Context(), serviceID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// formValuePtr reads a form field, distinguishing "absent" from "empty".
func formValuePtr(c echo.Context, name string) *string {
	if form, err := c.MultipartForm(); err == nil {
		if values, ok := form.Value[name]; ok && len(values) > 0 {
			return &values[0]
		}

		return nil
	}

	if values, ok := c.Request().Form[name]; ok && len(values) > 0 {
		return &values[0]
	}

	return nil
}

// listingImage pulls the optional "image" part out of the multipart form.
func listingImage(c echo.Context) (*usecase.ServiceImageInput, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		// No image in the form is fine.
		return nil, nil
	}

	return readImagePart(fileHeader)
}

func readImagePart(fileHeader *multipart.FileHeader) (*usecase.ServiceImageInput, error) {
	if fileHeader.Size > maxListingImageSize {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Image exceeds the 5MB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxListingImageSize))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &usecase.ServiceImageInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
