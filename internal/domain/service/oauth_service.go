package service

import (
	"context"

	"nearby/internal/domain/entity"
)

// OAuthUser represents user information returned by an OAuth provider.
type OAuthUser struct {
	ID            string              // Provider-specific user ID (e.g., Google's 'sub' claim).
	Email         string              // User's email address.
	Name          string              // User's display name.
	Provider      entity.ProviderType // The OAuth provider.
	AvatarURL     string              // URL to the user's profile picture.
	EmailVerified bool                // Whether the provider verified the email.
}

// OAuthService defines the redirect-based OAuth login flow.
// The client is sent to the provider's consent page and comes back with a
// code; there is no in-page success path.
type OAuthService interface {
	// BuildAuthorizationURL constructs the provider authorization URL,
	// registering the state parameter for CSRF validation on callback.
	BuildAuthorizationURL(state string) string

	// GenerateState produces a fresh CSRF state value.
	GenerateState() string

	// Authenticate exchanges the callback code for the provider's user info,
	// validating the accompanying state.
	Authenticate(ctx context.Context, code, state string) (*OAuthUser, error)

	// GetProvider returns the OAuth provider type.
	GetProvider() entity.ProviderType
}
