package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"nearby/internal/domain/entity"
	"nearby/internal/domain/repository"
	"nearby/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Hand-written testify mocks for the repository and service interfaces the
// use cases depend on.

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- repository mocks ---

type mockTransactionManager struct{ mock.Mock }

// Execute forwards the callback to a repository factory registered through
// Return, so tests exercise the real transactional closure.
func (m *mockTransactionManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	args := m.Called(ctx, fn)
	if factory, ok := args.Get(0).(repository.RepositoryFactory); ok {
		if err := fn(factory); err != nil {
			return err
		}
	}

	return args.Error(1)
}

type mockRepositoryFactory struct {
	mock.Mock

	userRepo         *mockUserRepository
	profileRepo      *mockProfileRepository
	authRepo         *mockAuthRepository
	refreshTokenRepo *mockRefreshTokenRepository
	serviceRepo      *mockServiceRepository
	bookingRepo      *mockBookingRepository
	reviewRepo       *mockReviewRepository
}

func newMockRepositoryFactory() *mockRepositoryFactory {
	return &mockRepositoryFactory{
		userRepo:         &mockUserRepository{},
		profileRepo:      &mockProfileRepository{},
		authRepo:         &mockAuthRepository{},
		refreshTokenRepo: &mockRefreshTokenRepository{},
		serviceRepo:      &mockServiceRepository{},
		bookingRepo:      &mockBookingRepository{},
		reviewRepo:       &mockReviewRepository{},
	}
}

func (m *mockRepositoryFactory) UserRepo() repository.UserRepository       { return m.userRepo }
func (m *mockRepositoryFactory) ProfileRepo() repository.ProfileRepository { return m.profileRepo }
func (m *mockRepositoryFactory) AuthRepo() repository.AuthRepository       { return m.authRepo }
func (m *mockRepositoryFactory) RefreshTokenRepo() repository.RefreshTokenRepository {
	return m.refreshTokenRepo
}
func (m *mockRepositoryFactory) ServiceRepo() repository.ServiceRepository { return m.serviceRepo }
func (m *mockRepositoryFactory) BookingRepo() repository.BookingRepository { return m.bookingRepo }
func (m *mockRepositoryFactory) ReviewRepo() repository.ReviewRepository   { return m.reviewRepo }

type mockUserRepository struct{ mock.Mock }

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*entity.User); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

type mockProfileRepository struct{ mock.Mock }

func (m *mockProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	args := m.Called(ctx, userID)
	if profile, ok := args.Get(0).(*entity.Profile); ok {
		return profile, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockProfileRepository) Upsert(ctx context.Context, profile *entity.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

type mockAuthRepository struct{ mock.Mock }

func (m *mockAuthRepository) FindAuthentication(ctx context.Context, provider entity.ProviderType, providerUserID string) (*entity.Authentication, error) {
	args := m.Called(ctx, provider, providerUserID)
	if auth, ok := args.Get(0).(*entity.Authentication); ok {
		return auth, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAuthRepository) CreateAuthentication(ctx context.Context, auth *entity.Authentication) error {
	return m.Called(ctx, auth).Error(0)
}

type mockRefreshTokenRepository struct{ mock.Mock }

func (m *mockRefreshTokenRepository) CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockRefreshTokenRepository) FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if token, ok := args.Get(0).(*entity.RefreshToken); ok {
		return token, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockRefreshTokenRepository) DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *mockRefreshTokenRepository) DeleteRefreshTokensByUserID(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type mockServiceRepository struct{ mock.Mock }

func (m *mockServiceRepository) Create(ctx context.Context, svc *entity.Service) error {
	return m.Called(ctx, svc).Error(0)
}

func (m *mockServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	args := m.Called(ctx, id)
	if svc, ok := args.Get(0).(*entity.Service); ok {
		return svc, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockServiceRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	args := m.Called(ctx, id)
	if svc, ok := args.Get(0).(*entity.Service); ok {
		return svc, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockServiceRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Service, error) {
	args := m.Called(ctx, ownerID)
	if services, ok := args.Get(0).([]*entity.Service); ok {
		return services, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockServiceRepository) FindAllActive(ctx context.Context, category string) ([]*entity.Service, error) {
	args := m.Called(ctx, category)
	if services, ok := args.Get(0).([]*entity.Service); ok {
		return services, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockServiceRepository) SummariesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.ServiceSummary, error) {
	args := m.Called(ctx, ids)
	if summaries, ok := args.Get(0).([]*entity.ServiceSummary); ok {
		return summaries, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockServiceRepository) Update(ctx context.Context, svc *entity.Service) error {
	return m.Called(ctx, svc).Error(0)
}

func (m *mockServiceRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	return m.Called(ctx, id, rating).Error(0)
}

func (m *mockServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockBookingRepository struct{ mock.Mock }

func (m *mockBookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	args := m.Called(ctx, id)
	if booking, ok := args.Get(0).(*entity.Booking); ok {
		return booking, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockBookingRepository) FindByCustomer(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	args := m.Called(ctx, userID)
	if bookings, ok := args.Get(0).([]*entity.Booking); ok {
		return bookings, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockBookingRepository) FindByProvider(ctx context.Context, providerID uuid.UUID) ([]*entity.Booking, error) {
	args := m.Called(ctx, providerID)
	if bookings, ok := args.Get(0).([]*entity.Booking); ok {
		return bookings, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) (*entity.Booking, error) {
	args := m.Called(ctx, id, status)
	if booking, ok := args.Get(0).(*entity.Booking); ok {
		return booking, args.Error(1)
	}

	return nil, args.Error(1)
}

type mockReviewRepository struct{ mock.Mock }

func (m *mockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if review, ok := args.Get(0).(*entity.Review); ok {
		return review, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockReviewRepository) FindByBookingAndReviewer(ctx context.Context, bookingID, reviewerID uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, bookingID, reviewerID)
	if review, ok := args.Get(0).(*entity.Review); ok {
		return review, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockReviewRepository) FindByService(ctx context.Context, serviceID uuid.UUID) ([]*entity.Review, error) {
	args := m.Called(ctx, serviceID)
	if reviews, ok := args.Get(0).([]*entity.Review); ok {
		return reviews, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockReviewRepository) FindByProvider(ctx context.Context, providerID uuid.UUID) ([]*entity.Review, error) {
	args := m.Called(ctx, providerID)
	if reviews, ok := args.Get(0).([]*entity.Review); ok {
		return reviews, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockReviewRepository) FindByReviewer(ctx context.Context, reviewerID uuid.UUID) ([]*entity.Review, error) {
	args := m.Called(ctx, reviewerID)
	if reviews, ok := args.Get(0).([]*entity.Review); ok {
		return reviews, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockReviewRepository) Update(ctx context.Context, review *entity.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// --- service mocks ---

type mockPasswordHasher struct{ mock.Mock }

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

func (m *mockPasswordHasher) ValidatePasswordStrength(password string) error {
	return m.Called(password).Error(0)
}

type mockTokenService struct{ mock.Mock }

func (m *mockTokenService) GenerateTokens(userID uuid.UUID, roles []string) (string, string, error) {
	args := m.Called(userID, roles)

	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) ValidateAccessToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if claims, ok := args.Get(0).(*service.Claims); ok {
		return claims, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockTokenService) ValidateRefreshToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if claims, ok := args.Get(0).(*service.Claims); ok {
		return claims, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockTokenService) GetRefreshTokenDuration() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

func (m *mockTokenService) HashToken(token string) string {
	return m.Called(token).String(0)
}

type mockOAuthService struct{ mock.Mock }

func (m *mockOAuthService) BuildAuthorizationURL(state string) string {
	return m.Called(state).String(0)
}

func (m *mockOAuthService) GenerateState() string {
	return m.Called().String(0)
}

func (m *mockOAuthService) Authenticate(ctx context.Context, code, state string) (*service.OAuthUser, error) {
	args := m.Called(ctx, code, state)
	if user, ok := args.Get(0).(*service.OAuthUser); ok {
		return user, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockOAuthService) GetProvider() entity.ProviderType {
	return m.Called().Get(0).(entity.ProviderType)
}

type mockObjectStorage struct{ mock.Mock }

func (m *mockObjectStorage) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, bucket, path, data, contentType)

	return args.String(0), args.Error(1)
}

func (m *mockObjectStorage) PublicURL(bucket, path string) string {
	return m.Called(bucket, path).String(0)
}

func (m *mockObjectStorage) Delete(ctx context.Context, bucket, path string) error {
	return m.Called(ctx, bucket, path).Error(0)
}

type mockEventPublisher struct{ mock.Mock }

func (m *mockEventPublisher) PublishBookingEvent(ctx context.Context, event *service.BookingEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockEventPublisher) Close() error {
	return m.Called().Error(0)
}

type mockNotificationService struct{ mock.Mock }

func (m *mockNotificationService) SendSingleNotification(ctx context.Context, token, title, body string, data map[string]string) error {
	return m.Called(ctx, token, title, body, data).Error(0)
}

type mockQRCodeService struct{ mock.Mock }

func (m *mockQRCodeService) GenerateServiceQR(serviceID uuid.UUID) ([]byte, error) {
	args := m.Called(serviceID)
	if png, ok := args.Get(0).([]byte); ok {
		return png, args.Error(1)
	}

	return nil, args.Error(1)
}
