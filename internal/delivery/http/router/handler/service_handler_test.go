package handler

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"nearby/internal/domain/entity"
	"nearby/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockServiceUsecase struct {
	mock.Mock
}

func (m *mockServiceUsecase) CreateService(ctx context.Context, ownerID uuid.UUID, input *usecase.CreateServiceInput) (*entity.Service, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Service), args.Error(1)
}

func (m *mockServiceUsecase) GetUserServices(ctx context.Context, ownerID uuid.UUID) ([]*entity.Service, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Service), args.Error(1)
}

func (m *mockServiceUsecase) GetAllServices(ctx context.Context, category string) ([]*entity.Service, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Service), args.Error(1)
}

func (m *mockServiceUsecase) GetServiceByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Service), args.Error(1)
}

func (m *mockServiceUsecase) UpdateService(ctx context.Context, ownerID, serviceID uuid.UUID, input *usecase.UpdateServiceInput) (*entity.Service, error) {
	args := m.Called(ctx, ownerID, serviceID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Service), args.Error(1)
}

func (m *mockServiceUsecase) DeleteService(ctx context.Context, ownerID, serviceID uuid.UUID) error {
	args := m.Called(ctx, ownerID, serviceID)

	return args.Error(0)
}

func (m *mockServiceUsecase) ListCategories(ctx context.Context) []string {
	args := m.Called(ctx)

	return args.Get(0).([]string)
}

func (m *mockServiceUsecase) ServiceQR(ctx context.Context, serviceID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func newTestServiceHandler(uc usecase.ServiceUsecase) *ServiceHandler {
	return NewServiceHandler(uc, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// multipartRequest builds a multipart form request with the given fields and
// an optional file under the "image" field.
func multipartRequest(t *testing.T, target string, fields map[string]string, image []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", "listing.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())

	return req
}

func TestServiceHandler_CreateService(t *testing.T) {
	uc := new(mockServiceUsecase)
	h := newTestServiceHandler(uc)

	ownerID := uuid.New()
	listing := &entity.Service{ID: uuid.New(), UserID: ownerID, Name: "Pipe repair", Category: "plumbing"}

	uc.On("CreateService", mock.Anything, ownerID, mock.MatchedBy(func(input *usecase.CreateServiceInput) bool {
		return input.Name == "Pipe repair" &&
			input.Category == "plumbing" &&
			input.Price == "$40/hr" &&
			input.Image != nil &&
			input.Image.Filename == "listing.png"
	})).Return(listing, nil)

	e := newTestEcho()
	req := multipartRequest(t, "/services", map[string]string{
		"name":     "Pipe repair",
		"category": "plumbing",
		"price":    "$40/hr",
	}, []byte("png-bytes"))
	rec := httptest.NewRecorder()

	err := h.CreateService(authedContext(e, req, rec, ownerID))

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	uc.AssertExpectations(t)
}

func TestServiceHandler_CreateService_MissingName(t *testing.T) {
	uc := new(mockServiceUsecase)
	h := newTestServiceHandler(uc)

	e := newTestEcho()
	req := multipartRequest(t, "/services", map[string]string{"category": "plumbing"}, nil)
	rec := httptest.NewRecorder()

	err := h.CreateService(authedContext(e, req, rec, uuid.New()))

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "CreateService", mock.Anything, mock.Anything, mock.Anything)
}

func TestServiceHandler_GetAllServices_CategoryFilter(t *testing.T) {
	uc := new(mockServiceUsecase)
	h := newTestServiceHandler(uc)

	uc.On("GetAllServices", mock.Anything, "cleaning").Return([]*entity.Service{
		{ID: uuid.New(), Name: "Deep clean", Category: "cleaning"},
	}, nil)

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/services?category=cleaning", nil)
	rec := httptest.NewRecorder()

	err := h.GetAllServices(e.NewContext(req, rec))

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Deep clean")
}

func TestServiceHandler_UpdateService_PartialFields(t *testing.T) {
	uc := new(mockServiceUsecase)
	h := newTestServiceHandler(uc)

	ownerID := uuid.New()
	serviceID := uuid.New()
	listing := &entity.Service{ID: serviceID, UserID: ownerID, Name: "Pipe repair", Price: "$55/hr"}

	// Only the submitted field should make it into the patch.
	uc.On("UpdateService", mock.Anything, ownerID, serviceID, mock.MatchedBy(func(input *usecase.UpdateServiceInput) bool {
		return input.Price != nil && *input.Price == "$55/hr" &&
			input.Name == nil && input.Category == nil && input.Description == nil &&
			input.Status == nil && input.Image == nil
	})).Return(listing, nil)

	e := newTestEcho()
	req := multipartRequest(t, "/", map[string]string{"price": "$55/hr"}, nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, ownerID)
	c.SetParamNames("id")
	c.SetParamValues(serviceID.String())

	err := h.UpdateService(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestServiceHandler_ServiceQR(t *testing.T) {
	uc := new(mockServiceUsecase)
	h := newTestServiceHandler(uc)

	serviceID := uuid.New()
	uc.On("ServiceQR", mock.Anything, serviceID).Return([]byte{0x89, 'P', 'N', 'G'}, nil)

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(serviceID.String())

	err := h.ServiceQR(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rec.Body.Bytes())
}

func TestServiceHandler_ServiceQR_BadID(t *testing.T) {
	uc := new(mockServiceUsecase)
	h := newTestServiceHandler(uc)

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.ServiceQR(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "ServiceQR", mock.Anything, mock.Anything)
}
