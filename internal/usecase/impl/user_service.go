// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"nearby/internal/delivery/reqctx"
	"nearby/internal/domain/entity"
	domainerrors "nearby/internal/domain/errors"
	"nearby/internal/domain/repository"
	"nearby/internal/domain/service"
	"nearby/internal/infra/metrics"
	"nearby/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	authRepo         repository.AuthRepository
	refreshTokenRepo repository.RefreshTokenRepository
	serviceRepo      repository.ServiceRepository
	hasher           service.PasswordHasher
	tokenService     service.TokenService
	googleOAuth      service.OAuthService
	collector        metrics.Collector
	logger           *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	AuthRepo         repository.AuthRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	ServiceRepo      repository.ServiceRepository
	Hasher           service.PasswordHasher
	TokenService     service.TokenService
	GoogleOAuth      service.OAuthService
	Collector        metrics.Collector
	Logger           *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:        params.TxManager,
		userRepo:         params.UserRepo,
		authRepo:         params.AuthRepo,
		refreshTokenRepo: params.RefreshTokenRepo,
		serviceRepo:      params.ServiceRepo,
		hasher:           params.Hasher,
		tokenService:     params.TokenService,
		googleOAuth:      params.GoogleOAuth,
		collector:        params.Collector,
		logger:           params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return reqctx.Logger(ctx, srv.logger)
}

// Register creates an email/password account. If an account already exists
// for the email without an email credential (a Google-only account), the
// credential is linked to it instead of creating a second user.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		return nil, err
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
	}

	var registeredUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		_, findErr := authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, input.Email)
		if findErr == nil {
			return domainerrors.ErrUserAlreadyExists
		}
		if !errors.Is(findErr, repository.ErrAuthNotFound) {
			return domainerrors.NewDatabaseExecuteError(findErr, "failed to check existing credential")
		}

		user, loadErr := srv.loadOrCreateUser(ctx, userRepo, input.Name, input.Email)
		if loadErr != nil {
			return loadErr
		}

		auth := &entity.Authentication{
			UserID:         user.ID,
			Provider:       entity.ProviderTypeEmail,
			ProviderUserID: input.Email,
			PasswordHash:   passwordHash,
		}
		if createErr := authRepo.CreateAuthentication(ctx, auth); createErr != nil {
			return createErr
		}

		registeredUser = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Registration failed", slog.String("email", input.Email), slog.Any("error", err))

		return nil, err
	}

	srv.collector.RecordUserRegistered(string(entity.ProviderTypeEmail))
	srv.log(ctx).Info("Registration succeeded", slog.String("userID", registeredUser.ID.String()))

	return &usecase.RegisterOutput{User: registeredUser}, nil
}

// loadOrCreateUser returns the account owning the email, creating it when
// none exists.
func (srv *userService) loadOrCreateUser(ctx context.Context, userRepo repository.UserRepository, name, email string) (*entity.User, error) {
	user, err := userRepo.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to look up user by email")
	}

	user = &entity.User{Name: name, Email: email}
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies an email/password credential and opens a session.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	auth, err := srv.loadLoginAuth(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	// bcrypt comparison stays outside any transaction; it is CPU-bound and
	// must not hold a connection.
	if !srv.hasher.Check(input.Password, auth.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	user, err := srv.userRepo.FindByID(ctx, auth.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load user")
	}

	output, err := srv.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	srv.collector.RecordLogin(string(entity.ProviderTypeEmail))
	srv.log(ctx).Info("Login succeeded", slog.String("userID", user.ID.String()))

	return output, nil
}

func (srv *userService) loadLoginAuth(ctx context.Context, email string) (*entity.Authentication, error) {
	auth, err := srv.authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, email)
	if err != nil {
		if errors.Is(err, repository.ErrAuthNotFound) {
			// Same answer as a wrong password; no account enumeration.
			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load credential")
	}

	return auth, nil
}

// openSession issues a token pair and persists the refresh token hash.
func (srv *userService) openSession(ctx context.Context, user *entity.User) (*usecase.LoginOutput, error) {
	roles := srv.rolesForUser(ctx, user.ID)

	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID, roles.ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	session := &entity.RefreshToken{
		UserID:    user.ID,
		TokenHash: srv.tokenService.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}
	if err := srv.refreshTokenRepo.CreateRefreshToken(ctx, session); err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to persist session")
	}

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// rolesForUser derives roles from state: everyone is a customer, and owning
// at least one listing makes a user a provider. Derivation is best-effort;
// a lookup failure degrades to customer-only rather than blocking login.
func (srv *userService) rolesForUser(ctx context.Context, userID uuid.UUID) entity.Roles {
	roles := entity.Roles{entity.RoleCustomer}

	listings, err := srv.serviceRepo.FindByOwner(ctx, userID)
	if err != nil {
		srv.log(ctx).Warn("Role derivation failed, defaulting to customer",
			slog.String("userID", userID.String()), slog.Any("error", err))

		return roles
	}
	if len(listings) > 0 {
		roles = append(roles, entity.RoleProvider)
	}

	return roles
}

// GoogleAuthURL starts the redirect-based Google login flow.
func (srv *userService) GoogleAuthURL(_ context.Context) (string, error) {
	state := srv.googleOAuth.GenerateState()

	return srv.googleOAuth.BuildAuthorizationURL(state), nil
}

// GoogleCallback completes the Google login flow. First-time logins create
// the account; an existing account with the same email gets the Google
// credential linked instead.
func (srv *userService) GoogleCallback(ctx context.Context, input *usecase.GoogleCallbackInput) (*usecase.LoginOutput, error) {
	oauthUser, err := srv.googleOAuth.Authenticate(ctx, input.Code, input.State)
	if err != nil {
		srv.log(ctx).Warn("Google authentication failed", slog.Any("error", err))

		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("google authentication failed")
	}

	var (
		user       *entity.User
		newAccount bool
	)
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		auth, findErr := authRepo.FindAuthentication(ctx, oauthUser.Provider, oauthUser.ID)
		if findErr == nil {
			loaded, loadErr := userRepo.FindByID(ctx, auth.UserID)
			if loadErr != nil {
				return domainerrors.NewDatabaseExecuteError(loadErr, "failed to load user")
			}
			user = loaded

			return nil
		}
		if !errors.Is(findErr, repository.ErrAuthNotFound) {
			return domainerrors.NewDatabaseExecuteError(findErr, "failed to check existing credential")
		}

		loaded, loadErr := srv.loadOrCreateUser(ctx, userRepo, oauthUser.Name, oauthUser.Email)
		if loadErr != nil {
			return loadErr
		}
		user = loaded
		newAccount = true

		return authRepo.CreateAuthentication(ctx, &entity.Authentication{
			UserID:         user.ID,
			Provider:       oauthUser.Provider,
			ProviderUserID: oauthUser.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	output, err := srv.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	if newAccount {
		srv.collector.RecordUserRegistered(string(oauthUser.Provider))
	}
	srv.collector.RecordLogin(string(oauthUser.Provider))
	srv.log(ctx).Info("Google login succeeded", slog.String("userID", user.ID.String()))

	return output, nil
}

// RefreshToken exchanges a valid refresh token for a new access token.
// The refresh token itself is not rotated.
func (srv *userService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, domainerrors.ErrRefreshTokenInvalid
	}

	tokenHash := srv.tokenService.HashToken(input.RefreshToken)
	if _, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, tokenHash); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) || errors.Is(err, repository.ErrRefreshTokenExpired) {
			return nil, domainerrors.ErrRefreshTokenInvalid
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load session")
	}

	roles := srv.rolesForUser(ctx, claims.UserID)
	accessToken, _, err := srv.tokenService.GenerateTokens(claims.UserID, roles.ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	return &usecase.RefreshTokenOutput{AccessToken: accessToken}, nil
}

// Logout revokes the presented session. A token that no longer maps to a
// stored session is reported, not raised; logging out twice is harmless.
func (srv *userService) Logout(ctx context.Context, input *usecase.LogoutInput) (*usecase.LogoutResult, error) {
	tokenHash := srv.tokenService.HashToken(input.RefreshToken)

	err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return &usecase.LogoutResult{SessionRevoked: false}, nil
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to revoke session")
	}

	srv.log(ctx).Info("Session revoked")

	return &usecase.LogoutResult{SessionRevoked: true}, nil
}

// GetCurrentIdentity returns the session view of a user: auth fields merged
// with the profile, profile values winning.
func (srv *userService) GetCurrentIdentity(ctx context.Context, userID uuid.UUID) (*entity.Identity, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load user")
	}

	identity := entity.IdentityFromUser(user)
	identity.MergeProfile(user.Profile)

	return identity, nil
}
