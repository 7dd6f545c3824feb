// Package entity contains the core business objects of the project.
package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// ServiceStatus controls whether a listing is visible to browsing customers.
type ServiceStatus string

const (
	// ServiceStatusActive makes the listing browsable and bookable.
	ServiceStatusActive ServiceStatus = "active"
	// ServiceStatusInactive hides the listing from everyone but its owner.
	ServiceStatusInactive ServiceStatus = "inactive"
)

// IsValid checks if the ServiceStatus is a valid value.
func (s ServiceStatus) IsValid() bool {
	return s == ServiceStatusActive || s == ServiceStatusInactive
}

// ServiceCategories is the fixed catalog a listing must belong to.
var ServiceCategories = []string{
	"Home Services",
	"Tech Support",
	"Education",
	"Healthcare",
	"Personal Care",
	"Transportation",
	"Food & Dining",
	"Entertainment",
	"Other",
}

// IsValidCategory reports whether the category is part of the catalog.
func IsValidCategory(category string) bool {
	return slices.Contains(ServiceCategories, category)
}

// Service is a listing owned by a provider.
type Service struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uuid.UUID     `json:"user_id"` // The owning provider.
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	Description string        `json:"description"`
	Price       string        `json:"price"` // Display string, e.g. "$40/hr"; never used for arithmetic.
	Rating      float64       `json:"rating"`
	Status      ServiceStatus `json:"status"`
	ImageURL    string        `json:"image_url"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ServiceSummary is the subset of a listing denormalized onto booking views.
type ServiceSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Price    string    `json:"price"`
	Category string    `json:"category"`
}

// Summary returns the booking-view projection of the listing.
func (s *Service) Summary() *ServiceSummary {
	return &ServiceSummary{
		ID:       s.ID,
		Name:     s.Name,
		Price:    s.Price,
		Category: s.Category,
	}
}
