// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	// BookingStatusPending is the initial state of every booking.
	BookingStatusPending BookingStatus = "pending"
	// BookingStatusConfirmed means the provider accepted the request.
	BookingStatusConfirmed BookingStatus = "confirmed"
	// BookingStatusCompleted is terminal: the service was delivered.
	BookingStatusCompleted BookingStatus = "completed"
	// BookingStatusCancelled is terminal: either side backed out.
	BookingStatusCancelled BookingStatus = "cancelled"
)

// IsValid checks if the BookingStatus is a valid value.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is allowed out of s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// ErrInvalidTransition is returned by NextBookingStatus for a transition
// outside the allowed table.
var ErrInvalidTransition = errors.New("invalid booking status transition")

// bookingTransitions is the allowed transition table:
// pending -> confirmed | cancelled, confirmed -> completed | cancelled.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
}

// NextBookingStatus validates a requested transition and returns the
// resulting status. Requesting the current status again is a no-op success,
// so repeated identical updates stay idempotent.
func NextBookingStatus(current, requested BookingStatus) (BookingStatus, error) {
	if !requested.IsValid() {
		return "", errors.Wrapf(ErrInvalidTransition, "unknown status %q", requested)
	}
	if requested == current {
		return current, nil
	}
	for _, allowed := range bookingTransitions[current] {
		if requested == allowed {
			return requested, nil
		}
	}

	return "", errors.Wrapf(ErrInvalidTransition, "%s -> %s", current, requested)
}

// Booking is a customer's appointment request against a service listing.
//
// ServiceProviderID and the User* contact fields are denormalized snapshots
// captured at creation time for the provider's convenience; they are never
// re-synced with the live service or profile afterwards.
type Booking struct {
	ID                uuid.UUID     `json:"id"`
	UserID            uuid.UUID     `json:"user_id"`    // The booking customer.
	ServiceID         uuid.UUID     `json:"service_id"` // The listing being booked.
	ServiceProviderID uuid.UUID     `json:"service_provider_id"`
	BookingDate       time.Time     `json:"booking_date"`
	BookingNotes      string        `json:"booking_notes"`
	BookingStatus     BookingStatus `json:"booking_status"`
	UserEmail         string        `json:"user_email"`
	UserFullName      string        `json:"user_full_name"`
	UserPhone         string        `json:"user_phone"`
	UserLocation      string        `json:"user_location"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`

	// Service is the enriched listing summary attached by read operations.
	// Nil when the lookup failed or the listing no longer exists.
	Service *ServiceSummary `json:"service,omitempty"`
}

// SnapshotProfile copies the customer's contact fields onto the booking.
// A nil profile leaves the snapshot columns empty; the booking still stands.
func (b *Booking) SnapshotProfile(p *Profile) {
	if p == nil {
		return
	}
	b.UserEmail = p.Email
	b.UserFullName = p.Name
	b.UserPhone = p.Phone
	b.UserLocation = p.Location
}
