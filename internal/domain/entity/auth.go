// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderType identifies how a credential was established.
type ProviderType string

const (
	// ProviderTypeEmail is the email/password credential.
	ProviderTypeEmail ProviderType = "email"
	// ProviderTypeGoogle is a linked Google account.
	ProviderTypeGoogle ProviderType = "google"
)

// Authentication represents a single method of logging in (a credential).
// A user's email/password is one record; a linked Google account is another.
type Authentication struct {
	ID             uuid.UUID // The unique ID for this specific authentication record.
	UserID         uuid.UUID // Links this authentication method to the User it belongs to.
	Provider       ProviderType
	ProviderUserID string    // The user's unique ID from the external provider (the email itself for the email provider).
	PasswordHash   string    // Stores the bcrypt-hashed password; only set when the Provider is "email".
	CreatedAt      time.Time // When this authentication method was linked to the account.
}

// RefreshToken represents a long-lived, authorized user session. It is used
// to obtain a new access token after the old one expires, without requiring
// credentials.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string    // SHA-256 hash of the raw refresh token; the raw value is never stored.
	ExpiresAt time.Time // When this refresh token becomes invalid.
	CreatedAt time.Time // When this session was created (i.e., when the user logged in).
}

// Session is what the session layer hands to subscribers on every auth-state
// change: the identity plus the tokens backing it.
type Session struct {
	Identity     *Identity `json:"identity"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}
