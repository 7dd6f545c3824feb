package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextBookingStatus_AllowedTransitions(t *testing.T) {
	cases := []struct {
		current   BookingStatus
		requested BookingStatus
	}{
		{BookingStatusPending, BookingStatusConfirmed},
		{BookingStatusPending, BookingStatusCancelled},
		{BookingStatusConfirmed, BookingStatusCompleted},
		{BookingStatusConfirmed, BookingStatusCancelled},
	}

	for _, tc := range cases {
		next, err := NextBookingStatus(tc.current, tc.requested)
		require.NoError(t, err, "%s -> %s", tc.current, tc.requested)
		assert.Equal(t, tc.requested, next)
	}
}

func TestNextBookingStatus_RejectedTransitions(t *testing.T) {
	cases := []struct {
		current   BookingStatus
		requested BookingStatus
	}{
		{BookingStatusPending, BookingStatusCompleted},
		{BookingStatusConfirmed, BookingStatusPending},
		{BookingStatusCompleted, BookingStatusConfirmed},
		{BookingStatusCompleted, BookingStatusCancelled},
		{BookingStatusCancelled, BookingStatusConfirmed},
		{BookingStatusCancelled, BookingStatusPending},
	}

	for _, tc := range cases {
		_, err := NextBookingStatus(tc.current, tc.requested)
		require.Error(t, err, "%s -> %s", tc.current, tc.requested)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestNextBookingStatus_SameStatusIsIdempotent(t *testing.T) {
	for _, status := range []BookingStatus{
		BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled,
	} {
		next, err := NextBookingStatus(status, status)
		require.NoError(t, err)
		assert.Equal(t, status, next)
	}
}

func TestNextBookingStatus_UnknownStatus(t *testing.T) {
	_, err := NextBookingStatus(BookingStatusPending, BookingStatus("archived"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestBookingSnapshotProfile(t *testing.T) {
	booking := &Booking{ID: uuid.New()}
	booking.SnapshotProfile(&Profile{
		Email:    "jo@example.com",
		Name:     "Jo",
		Phone:    "555-1234",
		Location: "Springfield",
	})

	assert.Equal(t, "jo@example.com", booking.UserEmail)
	assert.Equal(t, "Jo", booking.UserFullName)
	assert.Equal(t, "555-1234", booking.UserPhone)
	assert.Equal(t, "Springfield", booking.UserLocation)
}

func TestBookingSnapshotProfile_NilProfileLeavesFieldsEmpty(t *testing.T) {
	booking := &Booking{ID: uuid.New()}
	booking.SnapshotProfile(nil)

	assert.Empty(t, booking.UserEmail)
	assert.Empty(t, booking.UserFullName)
}

func TestBookingStatusIsTerminal(t *testing.T) {
	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
}

func TestReviewEditable(t *testing.T) {
	created := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	review := &Review{CreatedAt: created}

	assert.True(t, review.Editable(created.Add(23*time.Hour)))
	assert.True(t, review.Editable(created.Add(24*time.Hour)))
	assert.False(t, review.Editable(created.Add(24*time.Hour+time.Minute)))
}
