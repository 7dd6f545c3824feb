package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "nearby/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func handleError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	m := NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))
	m.HandleHTTPError(err, c)

	return rec
}

func TestHandleHTTPError_DomainError(t *testing.T) {
	rec := handleError(t, domainerrors.ErrServiceNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), domainerrors.ErrServiceNotFound.ErrorCode())
}

func TestHandleHTTPError_WrappedDomainError(t *testing.T) {
	err := errors.Wrap(domainerrors.ErrForbidden.WithDetails("service belongs to another provider"), "update service")

	rec := handleError(t, err)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "service belongs to another provider")
}

func TestHandleHTTPError_EchoHTTPError(t *testing.T) {
	rec := handleError(t, echo.NewHTTPError(http.StatusBadRequest, "Image exceeds the 5MB limit"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Image exceeds the 5MB limit")
}

func TestHandleHTTPError_UnknownError(t *testing.T) {
	rec := handleError(t, errors.New("database on fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_ERROR")
}
