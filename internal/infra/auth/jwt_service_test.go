package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nearby/config"
)

func newTestJWTService(t *testing.T) *jwtService {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-access-secret"
	cfg.SecretKey.Refresh = "test-refresh-secret"

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	return svc.(*jwtService)
}

func TestNewJWTService_RequiresSecrets(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newTestJWTService(t)
	userID := uuid.New()
	roles := []string{"customer", "provider"}

	accessToken, refreshToken, err := svc.GenerateTokens(userID, roles)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	claims, err := svc.ValidateAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, roles, claims.Roles)

	refreshClaims, err := svc.ValidateRefreshToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, refreshClaims.UserID)
	assert.Equal(t, "refresh", refreshClaims.Type)
	// Roles are only carried on access tokens.
	assert.Empty(t, refreshClaims.Roles)
}

func TestJWTService_RejectsCrossTypeTokens(t *testing.T) {
	svc := newTestJWTService(t)

	accessToken, refreshToken, err := svc.GenerateTokens(uuid.New(), []string{"customer"})
	require.NoError(t, err)

	// An access token is signed with a different secret than a refresh token,
	// so handing one to the other validator must fail.
	_, err = svc.ValidateRefreshToken(accessToken)
	assert.Error(t, err)

	_, err = svc.ValidateAccessToken(refreshToken)
	assert.Error(t, err)
}

func TestJWTService_RejectsTamperedToken(t *testing.T) {
	svc := newTestJWTService(t)

	accessToken, _, err := svc.GenerateTokens(uuid.New(), nil)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(accessToken + "x")
	assert.Error(t, err)

	_, err = svc.ValidateAccessToken("not-a-jwt")
	assert.Error(t, err)
}

func TestJWTService_HashToken(t *testing.T) {
	svc := newTestJWTService(t)

	hash := svc.HashToken("some-refresh-token")
	assert.Len(t, hash, 64) // SHA-256, hex-encoded
	assert.Equal(t, hash, svc.HashToken("some-refresh-token"))
	assert.NotEqual(t, hash, svc.HashToken("other-token"))
}

func TestJWTService_GetRefreshTokenDuration(t *testing.T) {
	svc := newTestJWTService(t)
	assert.Equal(t, time.Hour*24*7, svc.GetRefreshTokenDuration())
}
