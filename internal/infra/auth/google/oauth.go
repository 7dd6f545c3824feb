// Package google implements the redirect-based Google OAuth login flow.
package google

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"nearby/config"
	"nearby/internal/domain/entity"
	"nearby/internal/domain/service"
	"nearby/internal/errors"
)

const (
	googleOAuthURL    = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

	// stateTTL bounds how long a pending authorization may take.
	stateTTL = 10 * time.Minute
)

// OAuthService handles Google OAuth infrastructure operations.
type OAuthService struct {
	clientID     string
	clientSecret string
	redirectURI  string
	scopes       string

	httpClient *http.Client

	// State storage for CSRF protection
	stateStore map[string]time.Time
	stateMutex sync.Mutex
}

// NewOAuthService creates a new Google OAuth service.
func NewOAuthService(cfg *config.Config) service.OAuthService {
	return &OAuthService{
		clientID:     cfg.GoogleOAuth.ClientID,
		clientSecret: cfg.GoogleOAuth.ClientSecret,
		redirectURI:  cfg.GoogleOAuth.RedirectURI,
		scopes:       cfg.GoogleOAuth.Scopes,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		stateStore:   make(map[string]time.Time),
	}
}

// GenerateState generates a cryptographically secure random state string.
func (s *OAuthService) GenerateState() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// BuildAuthorizationURL constructs the Google OAuth authorization URL and
// registers the state parameter for CSRF validation on callback.
func (s *OAuthService) BuildAuthorizationURL(state string) string {
	s.storeState(state)

	params := url.Values{}
	params.Set("client_id", s.clientID)
	params.Set("redirect_uri", s.redirectURI)
	params.Set("scope", s.scopes)
	params.Set("response_type", "code")
	params.Set("state", state)

	return googleOAuthURL + "?" + params.Encode()
}

// Authenticate exchanges the callback code for Google's user info, validating
// the accompanying state first.
func (s *OAuthService) Authenticate(ctx context.Context, code, state string) (*service.OAuthUser, error) {
	if !s.consumeState(state) {
		return nil, errors.New("invalid or expired oauth state")
	}

	accessToken, err := s.exchangeCodeForToken(ctx, code)
	if err != nil {
		return nil, err
	}

	return s.fetchUserInfo(ctx, accessToken)
}

// GetProvider returns the OAuth provider type.
func (s *OAuthService) GetProvider() entity.ProviderType {
	return entity.ProviderTypeGoogle
}

// storeState stores a state parameter with expiration time.
func (s *OAuthService) storeState(state string) {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	s.stateStore[state] = time.Now().Add(stateTTL)

	// Clean up expired states while we hold the lock.
	now := time.Now()
	for st, expiry := range s.stateStore {
		if now.After(expiry) {
			delete(s.stateStore, st)
		}
	}
}

// consumeState validates a state parameter and removes it so it cannot be
// replayed.
func (s *OAuthService) consumeState(state string) bool {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	expiry, exists := s.stateStore[state]
	if !exists {
		return false
	}
	delete(s.stateStore, state)

	return !time.Now().After(expiry)
}

// exchangeCodeForToken exchanges an authorization code for an access token.
func (s *OAuthService) exchangeCodeForToken(ctx context.Context, code string) (string, error) {
	data := url.Values{}
	data.Set("client_id", s.clientID)
	data.Set("client_secret", s.clientSecret)
	data.Set("code", code)
	data.Set("grant_type", "authorization_code")
	data.Set("redirect_uri", s.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "failed to create token exchange request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to exchange code for token")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", errors.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return "", errors.Wrap(err, "failed to decode token response")
	}

	return tokenResponse.AccessToken, nil
}

// fetchUserInfo retrieves user information using an access token.
func (s *OAuthService) fetchUserInfo(ctx context.Context, accessToken string) (*service.OAuthUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create user info request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.Errorf("user info request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
		VerifiedEmail bool   `json:"verified_email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		return nil, errors.Wrap(err, "failed to decode user info response")
	}

	return &service.OAuthUser{
		ID:            googleUser.ID,
		Email:         googleUser.Email,
		Name:          googleUser.Name,
		Provider:      entity.ProviderTypeGoogle,
		AvatarURL:     googleUser.Picture,
		EmailVerified: googleUser.VerifiedEmail,
	}, nil
}
