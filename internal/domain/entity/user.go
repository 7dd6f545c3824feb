// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the authenticated principal (the "Identity"). It carries the
// fundamental account data owned by the auth subsystem; everything the user
// edits about themselves lives on the Profile.
type User struct {
	ID        uuid.UUID `json:"id"`         // The Global Unique Identifier (GUID) for the user.
	Email     string    `json:"email"`      // The user's primary contact email, often used as a login identifier.
	Name      string    `json:"name"`       // The user's display name.
	Profile   *Profile  `json:"profile"`    // Extended user-supplied attributes. Nil until the user saves a profile.
	CreatedAt time.Time `json:"created_at"` // Timestamp of when this user account was created.
	UpdatedAt time.Time `json:"updated_at"` // Timestamp of the last modification to this user's data.
}

// Profile holds the extended, mutable attributes keyed one-to-one to a User.
// A missing profile is a normal state ("no profile yet"), never an error.
type Profile struct {
	UserID      uuid.UUID `json:"user_id"`      // Foreign key linking this profile to its User.
	Name        string    `json:"name"`         // Display name as edited on the profile page.
	Email       string    `json:"email"`        // Contact email shown to providers.
	Phone       string    `json:"phone"`        // Contact phone number.
	Location    string    `json:"location"`     // Free-form location string.
	Bio         string    `json:"bio"`          // Short self-description.
	AvatarURL   string    `json:"avatar_url"`   // Public URL of the uploaded profile image.
	DeviceToken string    `json:"device_token"` // Optional FCM token for best-effort push notifications.
	UpdatedAt   time.Time `json:"updated_at"`   // Timestamp of the last profile change.
}

// Identity is the session-facing view of a User: auth data plus a shallow
// merge of the profile fields. Profile values win on key collision, matching
// how the session layer presents "who is logged in".
type Identity struct {
	ID        uuid.UUID         `json:"id"`
	Email     string            `json:"email"`
	CreatedAt time.Time         `json:"created_at"`
	Metadata  map[string]string `json:"metadata"`
}

// MergeProfile overlays profile fields onto the identity metadata.
// The merge is shallow; empty profile fields do not erase existing keys.
func (id *Identity) MergeProfile(p *Profile) {
	if p == nil {
		return
	}
	if id.Metadata == nil {
		id.Metadata = make(map[string]string)
	}

	for key, value := range map[string]string{
		"name":       p.Name,
		"phone":      p.Phone,
		"location":   p.Location,
		"bio":        p.Bio,
		"avatar_url": p.AvatarURL,
	} {
		if value != "" {
			id.Metadata[key] = value
		}
	}
}

// IdentityFromUser builds the session view of a user.
func IdentityFromUser(u *User) *Identity {
	if u == nil {
		return nil
	}

	identity := &Identity{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		Metadata:  map[string]string{},
	}
	if u.Name != "" {
		identity.Metadata["name"] = u.Name
	}

	return identity
}
