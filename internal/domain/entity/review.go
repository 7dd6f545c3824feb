// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReviewEditWindow is how long a reviewer may edit a review after creating it.
const ReviewEditWindow = 24 * time.Hour

// Review is a customer's rating of a completed booking. ServiceID and
// ServiceProviderID are resolved from the booking at creation time.
type Review struct {
	ID                uuid.UUID `json:"id"`
	BookingID         uuid.UUID `json:"booking_id"`
	ServiceID         uuid.UUID `json:"service_id"`
	ServiceProviderID uuid.UUID `json:"service_provider_id"`
	ReviewerID        uuid.UUID `json:"reviewer_id"`
	Rating            int       `json:"rating"` // 1..5
	ReviewText        string    `json:"review_text"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsValidRating reports whether a rating falls in the accepted 1..5 range.
func IsValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// Editable reports whether the review is still inside its edit window at
// the given instant.
func (r *Review) Editable(now time.Time) bool {
	return now.Sub(r.CreatedAt) <= ReviewEditWindow
}
