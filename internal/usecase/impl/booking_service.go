package impl

import (
	"context"
	"fmt"
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

// bookingService implements the BookingUsecase interface.
type bookingService struct {
	bookingRepo  repository.BookingRepository
	serviceRepo  repository.ServiceRepository
	profileRepo  repository.ProfileRepository
	publisher    service.EventPublisher
	notification service.NotificationService
	collector    metrics.Collector
	logger       *slog.Logger
}

// BookingServiceParams holds dependencies for bookingService, injected by Fx.
type BookingServiceParams struct {
	fx.In

	BookingRepo  repository.BookingRepository
	ServiceRepo  repository.ServiceRepository
	ProfileRepo  repository.ProfileRepository
	Publisher    service.EventPublisher
	Notification service.NotificationService
	Collector    metrics.Collector
	Logger       *slog.Logger
}

// NewBookingService is the constructor for bookingService.
func NewBookingService(params BookingServiceParams) usecase.BookingUsecase {
	return &bookingService{
		bookingRepo:  params.BookingRepo,
		serviceRepo:  params.ServiceRepo,
		profileRepo:  params.ProfileRepo,
		publisher:    params.Publisher,
		notification: params.Notification,
		collector:    params.Collector,
		logger:       params.Logger,
	}
}

func (srv *bookingService) log(ctx context.Context) *slog.Logger {
	return reqctx.Logger(ctx, srv.logger)
}

// CreateBooking requests an appointment on an active listing. The provider
// is resolved from the listing; the customer's contact details are
// snapshotted from their profile at this moment and never re-synced.
func (srv *bookingService) CreateBooking(ctx context.Context, customerID uuid.UUID, input *usecase.CreateBookingInput) (*entity.Booking, error) {
	listing, err := srv.serviceRepo.FindActiveByID(ctx, input.ServiceID)
	if err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, domainerrors.ErrServiceNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load service")
	}

	booking := &entity.Booking{
		UserID:            customerID,
		ServiceID:         listing.ID,
		ServiceProviderID: listing.UserID,
		BookingDate:       input.BookingDate,
		BookingNotes:      input.Notes,
		BookingStatus:     entity.BookingStatusPending,
	}

	// Snapshot is best-effort; a customer without a profile still books.
	profile, err := srv.profileRepo.FindByUserID(ctx, customerID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		srv.log(ctx).Warn("Profile snapshot failed",
			slog.String("userID", customerID.String()), slog.Any("error", err))
	}
	booking.SnapshotProfile(profile)

	if err := srv.bookingRepo.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrServiceNotFound) {
			return nil, domainerrors.ErrServiceNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create booking")
	}

	booking.Service = listing.Summary()
	srv.collector.RecordBookingCreated()
	srv.log(ctx).Info("Booking created",
		slog.String("bookingID", booking.ID.String()), slog.String("serviceID", listing.ID.String()))

	srv.publishBookingEvent(ctx, booking)
	srv.notifyProvider(ctx, booking, "New booking request",
		fmt.Sprintf("You have a new booking request for %s", listing.Name))

	return booking, nil
}

// GetUserBookings returns the customer's bookings, newest booking date first.
func (srv *bookingService) GetUserBookings(ctx context.Context, customerID uuid.UUID) ([]*entity.Booking, error) {
	bookings, err := srv.bookingRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load bookings")
	}

	srv.attachServiceSummaries(ctx, bookings)

	return bookings, nil
}

// GetProviderBookings returns a provider's incoming bookings, newest booking
// date first.
func (srv *bookingService) GetProviderBookings(ctx context.Context, providerID uuid.UUID) ([]*entity.Booking, error) {
	bookings, err := srv.bookingRepo.FindByProvider(ctx, providerID)
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load bookings")
	}

	srv.attachServiceSummaries(ctx, bookings)

	return bookings, nil
}

// attachServiceSummaries enriches bookings with their listing summaries in
// one batched query. Enrichment degrades gracefully: on failure the bookings
// are returned without summaries, and a deleted listing leaves Service nil.
func (srv *bookingService) attachServiceSummaries(ctx context.Context, bookings []*entity.Booking) {
	if len(bookings) == 0 {
		return
	}

	seen := make(map[uuid.UUID]struct{}, len(bookings))
	ids := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		if _, ok := seen[b.ServiceID]; ok {
			continue
		}
		seen[b.ServiceID] = struct{}{}
		ids = append(ids, b.ServiceID)
	}

	summaries, err := srv.serviceRepo.SummariesByIDs(ctx, ids)
	if err != nil {
		srv.log(ctx).Warn("Booking enrichment failed", slog.Any("error", err))

		return
	}

	byID := make(map[uuid.UUID]*entity.ServiceSummary, len(summaries))
	for _, s := range summaries {
		byID[s.ID] = s
	}
	for _, b := range bookings {
		b.Service = byID[b.ServiceID]
	}
}

// UpdateBookingStatus moves a booking through its lifecycle. The customer
// may only cancel; the provider may confirm, complete, and cancel.
// Requesting the current status again is an idempotent no-op.
func (srv *bookingService) UpdateBookingStatus(ctx context.Context, actorID, bookingID uuid.UUID, input *usecase.UpdateBookingStatusInput) (*entity.Booking, error) {
	booking, err := srv.bookingRepo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, domainerrors.ErrBookingNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load booking")
	}

	if err := authorizeStatusChange(booking, actorID, input.Status); err != nil {
		return nil, err
	}

	next, err := entity.NextBookingStatus(booking.BookingStatus, input.Status)
	if err != nil {
		return nil, domainerrors.ErrInvalidBookingTransition.WithDetails(err.Error())
	}
	if next == booking.BookingStatus {
		return booking, nil
	}

	updated, err := srv.bookingRepo.UpdateStatus(ctx, bookingID, next)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, domainerrors.ErrBookingNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to update booking")
	}

	srv.collector.RecordBookingStatusChange(string(next))
	srv.log(ctx).Info("Booking status changed",
		slog.String("bookingID", bookingID.String()),
		slog.String("from", string(booking.BookingStatus)), slog.String("to", string(next)))

	srv.publishBookingEvent(ctx, updated)
	if actorID == booking.ServiceProviderID {
		srv.notifyCustomer(ctx, updated, "Booking update",
			fmt.Sprintf("Your booking is now %s", next))
	} else {
		srv.notifyProvider(ctx, updated, "Booking cancelled",
			"A customer cancelled their booking")
	}

	return updated, nil
}

// authorizeStatusChange enforces who may request which transition.
func authorizeStatusChange(booking *entity.Booking, actorID uuid.UUID, requested entity.BookingStatus) error {
	switch actorID {
	case booking.ServiceProviderID:
		return nil
	case booking.UserID:
		if requested != entity.BookingStatusCancelled {
			return domainerrors.ErrForbidden.WithDetails("customers may only cancel bookings")
		}

		return nil
	default:
		return domainerrors.ErrForbidden.WithDetails("booking belongs to another user")
	}
}

// publishBookingEvent publishes a lifecycle event. Publishing is
// best-effort: a broker failure never fails the booking operation.
func (srv *bookingService) publishBookingEvent(ctx context.Context, booking *entity.Booking) {
	event := &service.BookingEvent{
		RequestID:         reqctx.RequestID(ctx),
		BookingID:         booking.ID.String(),
		ServiceID:         booking.ServiceID.String(),
		CustomerID:        booking.UserID.String(),
		ServiceProviderID: booking.ServiceProviderID.String(),
		Status:            string(booking.BookingStatus),
		OccurredAt:        time.Now().UTC().Format(time.RFC3339),
	}
	if err := srv.publisher.PublishBookingEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Booking event publish failed",
			slog.String("bookingID", booking.ID.String()), slog.Any("error", err))
	}
}

func (srv *bookingService) notifyProvider(ctx context.Context, booking *entity.Booking, title, body string) {
	srv.notifyUser(ctx, booking.ServiceProviderID, booking, title, body)
}

func (srv *bookingService) notifyCustomer(ctx context.Context, booking *entity.Booking, title, body string) {
	srv.notifyUser(ctx, booking.UserID, booking, title, body)
}

// notifyUser pushes to a user's registered device, if any. Best-effort.
func (srv *bookingService) notifyUser(ctx context.Context, userID uuid.UUID, booking *entity.Booking, title, body string) {
	profile, err := srv.profileRepo.FindByUserID(ctx, userID)
	if err != nil || profile.DeviceToken == "" {
		return
	}

	data := map[string]string{
		"booking_id": booking.ID.String(),
		"status":     string(booking.BookingStatus),
	}
	if err := srv.notification.SendSingleNotification(ctx, profile.DeviceToken, title, body, data); err != nil {
		srv.log(ctx).Warn("Push notification failed",
			slog.String("userID", userID.String()), slog.Any("error", err))
	}
}
