package impl

import (
	"context"
	"testing"
	"time"

	"nearby/internal/domain/entity"
	domainerrors "nearby/internal/domain/errors"
	"nearby/internal/domain/repository"
	"nearby/internal/domain/service"
	"nearby/internal/infra/metrics"
	"nearby/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service          usecase.UserUsecase
	txManager        *mockTransactionManager
	userRepo         *mockUserRepository
	authRepo         *mockAuthRepository
	refreshTokenRepo *mockRefreshTokenRepository
	serviceRepo      *mockServiceRepository
	hasher           *mockPasswordHasher
	tokenService     *mockTokenService
	googleOAuth      *mockOAuthService
}

func createTestUserService(t *testing.T) userServiceFixtures {
	t.Helper()

	fixtures := userServiceFixtures{
		txManager:        &mockTransactionManager{},
		userRepo:         &mockUserRepository{},
		authRepo:         &mockAuthRepository{},
		refreshTokenRepo: &mockRefreshTokenRepository{},
		serviceRepo:      &mockServiceRepository{},
		hasher:           &mockPasswordHasher{},
		tokenService:     &mockTokenService{},
		googleOAuth:      &mockOAuthService{},
	}
	fixtures.service = NewUserService(UserServiceParams{
		TxManager:        fixtures.txManager,
		UserRepo:         fixtures.userRepo,
		AuthRepo:         fixtures.authRepo,
		RefreshTokenRepo: fixtures.refreshTokenRepo,
		ServiceRepo:      fixtures.serviceRepo,
		Hasher:           fixtures.hasher,
		TokenService:     fixtures.tokenService,
		GoogleOAuth:      fixtures.googleOAuth,
		Collector:        metrics.NopCollector{},
		Logger:           newDiscardLogger(),
	})

	return fixtures
}

func TestUserService_Register_Success(t *testing.T) {
	fixtures := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "Password123!",
	}

	fixtures.hasher.On("ValidatePasswordStrength", input.Password).Return(nil)
	fixtures.hasher.On("Hash", input.Password).Return("hashed_password", nil)

	factory := newMockRepositoryFactory()
	factory.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, input.Email).
		Return(nil, repository.ErrAuthNotFound)
	factory.userRepo.On("FindByEmail", ctx, input.Email).
		Return(nil, repository.ErrUserNotFound)
	factory.userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.User).ID = uuid.New()
		}).
		Return(nil)
	factory.authRepo.On("CreateAuthentication", ctx, mock.AnythingOfType("*entity.Authentication")).
		Return(nil)
	fixtures.txManager.On("Execute", ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Return(factory, nil)

	output, err := fixtures.service.Register(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, input.Email, output.User.Email)
	assert.NotEqual(t, uuid.Nil, output.User.ID)

	createdAuth := factory.authRepo.Calls[1].Arguments.Get(1).(*entity.Authentication)
	assert.Equal(t, entity.ProviderTypeEmail, createdAuth.Provider)
	assert.Equal(t, input.Email, createdAuth.ProviderUserID)
	assert.Equal(t, "hashed_password", createdAuth.PasswordHash)
}

func TestUserService_Register_EmailTaken(t *testing.T) {
	fixtures := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Name:     "Test User",
		Email:    "taken@example.com",
		Password: "Password123!",
	}

	fixtures.hasher.On("ValidatePasswordStrength", input.Password).Return(nil)
	fixtures.hasher.On("Hash", input.Password).Return("hashed_password", nil)

	factory := newMockRepositoryFactory()
	factory.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, input.Email).
		Return(&entity.Authentication{UserID: uuid.New()}, nil)
	fixtures.txManager.On("Execute", ctx, mock.Anything).Return(factory, nil)

	output, err := fixtures.service.Register(ctx, input)

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestUserService_Register_LinksCredentialToExistingAccount(t *testing.T) {
	fixtures := createTestUserService(t)

	ctx := context.Background()
	existing := &entity.User{ID: uuid.New(), Email: "linked@example.com", Name: "Linked"}
	input := &usecase.RegisterInput{
		Name:     "Linked",
		Email:    existing.Email,
		Password: "Password123!",
	}

	fixtures.hasher.On("ValidatePasswordStrength", input.Password).Return(nil)
	fixtures.hasher.On("Hash", input.Password).Return("hashed_password", nil)

	factory := newMockRepositoryFactory()
	factory.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, input.Email).
		Return(nil, repository.ErrAuthNotFound)
	factory.userRepo.On("FindByEmail", ctx, input.Email).Return(existing, nil)
	factory.authRepo.On("CreateAuthentication", ctx, mock.AnythingOfType("*entity.Authentication")).
		Return(nil)
	fixtures.txManager.On("Execute", ctx, mock.Anything).Return(factory, nil)

	output, err := fixtures.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, existing.ID, output.User.ID)
	factory.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Register_WeakPassword(t *testing.T) {
	fixtures := createTestUserService(t)

	input := &usecase.RegisterInput{Email: "test@example.com", Password: "weak"}
	fixtures.hasher.On("ValidatePasswordStrength", input.Password).
		Return(domainerrors.ErrValidationFailed.WithDetails("password is too short"))

	output, err := fixtures.service.Register(context.Background(), input)

	assert.Nil(t, output)
	assert.Error(t, err)
	fixtures.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestUserService_Login_Success(t *testing.T) {
	fixtures := createTestUserService(t)

	ctx := context.Background()
	userID := uuid.New()
	input := &usecase.LoginInput{Email: "test@example.com", Password: "Password123!"}
	auth := &entity.Authentication{UserID: userID, PasswordHash: "stored_hash"}
	user := &entity.User{ID: userID, Email: input.Email}

	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, input.Email).
		Return(auth, nil)
	fixtures.hasher.On("Check", input.Password, auth.PasswordHash).Return(true)
	fixtures.userRepo.On("FindByID", ctx, userID).Return(user, nil)
	fixtures.serviceRepo.On("FindByOwner", ctx, userID).Return([]*entity.Service{}, nil)
	fixtures.tokenService.On("GenerateTokens", userID, []string{"customer"}).
		Return("access_token", "refresh_token", nil)
	fixtures.tokenService.On("HashToken", "refresh_token").Return("token_hash")
	fixtures.tokenService.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
	fixtures.refreshTokenRepo.On("CreateRefreshToken", ctx, mock.AnythingOfType("*entity.RefreshToken")).
		Return(nil)

	output, err := fixtures.service.Login(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "access_token", output.AccessToken)
	assert.Equal(t, "refresh_token", output.RefreshToken)
	assert.Equal(t, userID, output.User.ID)

	session := fixtures.refreshTokenRepo.Calls[0].Arguments.Get(1).(*entity.RefreshToken)
	assert.Equal(t, "token_hash", session.TokenHash)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), session.ExpiresAt, time.Minute)
}

func TestUserService_Login_ProviderRoleDerivedFromListings(t *testing.T) {
	fixtures := createTestUserService(t)

	ctx := context.Background()
	userID := uuid.New()
	input := &usecase.LoginInput{Email: "pro@example.com", Password: "Password123!"}

	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, input.Email).
		Return(&entity.Authentication{UserID: userID, PasswordHash: "h"}, nil)
	fixtures.hasher.On("Check", input.Password, "h").Return(true)
	fixtures.userRepo.On("FindByID", ctx, userID).
		Return(&entity.User{ID: userID, Email: input.Email}, nil)
	fixtures.serviceRepo.On("FindByOwner", ctx, userID).
		Return([]*entity.Service{{ID: uuid.New(), UserID: userID}}, nil)
	fixtures.tokenService.On("GenerateTokens", userID, []string{"customer", "provider"}).
		Return("access_token", "refresh_token", nil)
	fixtures.tokenService.On("HashToken", "refresh_token").Return("token_hash")
	fixtures.tokenService.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
	fixtures.refreshTokenRepo.On("CreateRefreshToken", ctx, mock.Anything).Return(nil)

	_, err := fixtures.service.Login(ctx, input)

	require.NoError(t, err)
	fixtures.tokenService.AssertExpectations(t)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	fixtures := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.LoginInput{Email: "test@example.com", Password: "wrong"}

	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, input.Email).
		Return(&entity.Authentication{UserID: uuid.New(), PasswordHash: "stored_hash"}, nil)
	fixtures.hasher.On("Check", input.Password, "stored_hash").Return(false)

	output, err := fixtures.service.Login(ctx, input)

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_Login_UnknownEmailAnswersLikeWrongPassword(t *testing.T) {
	fixtures := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.LoginInput{Email: "nobody@example.com", Password: "Password123!"}

	fixtures.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeEmail, input.Email).
		Return(nil, repository.ErrAuthNotFound)

	output, err := fixtures.service.Login(ctx, input)

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_GoogleCallback_NewAccount(t *testing.T) {
	fixtures := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.GoogleCallbackInput{Code: "auth_code", State: "state_value"}
	oauthUser := &service.OAuthUser{
		ID:            "google-sub-123",
		Email:         "google@example.com",
		Name:          "Google User",
		Provider:      entity.ProviderTypeGoogle,
		EmailVerified: true,
	}

	fixtures.googleOAuth.On("Authenticate", ctx, input.Code, input.State).Return(oauthUser, nil)

	factory := newMockRepositoryFactory()
	factory.authRepo.On("FindAuthentication", ctx, entity.ProviderTypeGoogle, oauthUser.ID).
		Return(nil, repository.ErrAuthNotFound)
	factory.userRepo.On("FindByEmail", ctx, oauthUser.Email).
		Return(nil, repository.ErrUserNotFound)
	factory.userRepo.On("Create", ctx, mock.AnythingOfType("*entity.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.User).ID = uuid.New()
		}).
		Return(nil)
	factory.authRepo.On("CreateAuthentication", ctx, mock.AnythingOfType("*entity.Authentication")).
		Return(nil)
	fixtures.txManager.On("Execute", ctx, mock.Anything).Return(factory, nil)

	fixtures.serviceRepo.On("FindByOwner", ctx, mock.Anything).Return([]*entity.Service{}, nil)
	fixtures.tokenService.On("GenerateTokens", mock.Anything, []string{"customer"}).
		Return("access_token", "refresh_token", nil)
	fixtures.tokenService.On("HashToken", "refresh_token").Return("token_hash")
	fixtures.tokenService.On("GetRefreshTokenDuration").Return(7 * 24 * time.Hour)
	fixtures.refreshTokenRepo.On("CreateRefreshToken", ctx, mock.Anything).Return(nil)

	output, err := fixtures.service.GoogleCallback(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, oauthUser.Email, output.User.Email)

	createdAuth := factory.authRepo.Calls[1].Arguments.Get(1).(*entity.Authentication)
	assert.Equal(t, entity.ProviderTypeGoogle, createdAuth.Provider)
	assert.Equal(t, oauthUser.ID, createdAuth.ProviderUserID)
	assert.Empty(t, createdAuth.PasswordHash)
}

func TestUserService_GoogleCallback_AuthFailure(t *testing.T) {
	fixtures := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.GoogleCallbackInput{Code: "auth_code", State: "bad_state"}

	fixtures.googleOAuth.On("Authenticate", ctx, input.Code, input.State).
		Return(nil, errors.New("invalid state"))

	output, err := fixtures.service.GoogleCallback(ctx, input)

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	fixtures.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestUserService_GoogleAuthURL(t *testing.T) {
	fixtures := createTestUserService(t)

	fixtures.googleOAuth.On("GenerateState").Return("fresh_state")
	fixtures.googleOAuth.On("BuildAuthorizationURL", "fresh_state").
		Return("https://accounts.google.com/o/oauth2/v2/auth?state=fresh_state")

	url, err := fixtures.service.GoogleAuthURL(context.Background())

	require.NoError(t, err)
	assert.Contains(t, url, "fresh_state")
}

func TestUserService_RefreshToken_Success(t *testing.T) {
	fixtures := createTestUserService(t)

	ctx := context.Background()
	userID := uuid.New()
	input := &usecase.RefreshTokenInput{RefreshToken: "raw_refresh"}

	fixtures.tokenService.On("ValidateRefreshToken", input.RefreshToken).
		Return(&service.Claims{UserID: userID, Type: "refresh"}, nil)
	fixtures.tokenService.On("HashToken", input.RefreshToken).Return("token_hash")
	fixtures.refreshTokenRepo.On("FindRefreshTokenByHash", ctx, "token_hash").
		Return(&entity.RefreshToken{UserID: userID, TokenHash: "token_hash"}, nil)
	fixtures.serviceRepo.On("FindByOwner", ctx, userID).Return([]*entity.Service{}, nil)
	fixtures.tokenService.On("GenerateTokens", userID, []string{"customer"}).
		Return("new_access", "unused_refresh", nil)

	output, err := fixtures.service.RefreshToken(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "new_access", output.AccessToken)
	// The stored session is reused, never rotated.
	fixtures.refreshTokenRepo.AssertNotCalled(t, "CreateRefreshToken", mock.Anything, mock.Anything)
}

func TestUserService_RefreshToken_RevokedSession(t *testing.T) {
	fixtures := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.RefreshTokenInput{RefreshToken: "raw_refresh"}

	fixtures.tokenService.On("ValidateRefreshToken", input.RefreshToken).
		Return(&service.Claims{UserID: uuid.New(), Type: "refresh"}, nil)
	fixtures.tokenService.On("HashToken", input.RefreshToken).Return("token_hash")
	fixtures.refreshTokenRepo.On("FindRefreshTokenByHash", ctx, "token_hash").
		Return(nil, repository.ErrRefreshTokenNotFound)

	output, err := fixtures.service.RefreshToken(ctx, input)

	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestUserService_Logout_RevokesSession(t *testing.T) {
	fixtures := createTestUserService(t)

	ctx := context.Background()
	fixtures.tokenService.On("HashToken", "raw_refresh").Return("token_hash")
	fixtures.refreshTokenRepo.On("DeleteRefreshTokenByHash", ctx, "token_hash").Return(nil)

	result, err := fixtures.service.Logout(ctx, &usecase.LogoutInput{RefreshToken: "raw_refresh"})

	require.NoError(t, err)
	assert.True(t, result.SessionRevoked)
}

func TestUserService_Logout_AlreadyRevokedIsNotAnError(t *testing.T) {
	fixtures := createTestUserService(t)

	ctx := context.Background()
	fixtures.tokenService.On("HashToken", "raw_refresh").Return("token_hash")
	fixtures.refreshTokenRepo.On("DeleteRefreshTokenByHash", ctx, "token_hash").
		Return(repository.ErrRefreshTokenNotFound)

	result, err := fixtures.service.Logout(ctx, &usecase.LogoutInput{RefreshToken: "raw_refresh"})

	require.NoError(t, err)
	assert.False(t, result.SessionRevoked)
}

func TestUserService_GetCurrentIdentity_MergesProfile(t *testing.T) {
	fixtures := createTestUserService(t)

	ctx := context.Background()
	userID := uuid.New()
	user := &entity.User{
		ID:    userID,
		Email: "test@example.com",
		Name:  "Auth Name",
		Profile: &entity.Profile{
			UserID:   userID,
			Name:     "Profile Name",
			Location: "Springfield",
		},
	}
	fixtures.userRepo.On("FindByID", ctx, userID).Return(user, nil)

	identity, err := fixtures.service.GetCurrentIdentity(ctx, userID)

	require.NoError(t, err)
	assert.Equal(t, "Profile Name", identity.Metadata["name"])
	assert.Equal(t, "Springfield", identity.Metadata["location"])
}

func TestUserService_GetCurrentIdentity_UserNotFound(t *testing.T) {
	fixtures := createTestUserService(t)

	ctx := context.Background()
	userID := uuid.New()
	fixtures.userRepo.On("FindByID", ctx, userID).Return(nil, repository.ErrUserNotFound)

	identity, err := fixtures.service.GetCurrentIdentity(ctx, userID)

	assert.Nil(t, identity)
	assert.True(t, errors.Is(err, domainerrors.ErrUserNotFound))
}
