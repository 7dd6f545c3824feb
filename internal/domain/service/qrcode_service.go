package service

import (
	"github.com/google/uuid"
)

// QRCodeService defines the interface for QR code generation for sharing
// service booking pages.
type QRCodeService interface {
	// GenerateServiceQR generates a QR code pointing at a listing's booking page.
	GenerateServiceQR(serviceID uuid.UUID) ([]byte, error)
}
