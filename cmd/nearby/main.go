package main

import (
	"context"
	"log/slog"
	"os"

	"nearby/config"
	"nearby/internal/delivery"
	"nearby/internal/delivery/http"
	"nearby/internal/delivery/http/middleware"
	"nearby/internal/delivery/http/router/handler"
	"nearby/internal/domain/service"
	"nearby/internal/infra/auth"
	"nearby/internal/infra/auth/google"
	logs "nearby/internal/infra/log"
	"nearby/internal/infra/metrics"
	"nearby/internal/infra/notification"
	"nearby/internal/infra/persistence/postgres"
	"nearby/internal/infra/pubsub"
	"nearby/internal/infra/qrcode"
	"nearby/internal/infra/storage"
	"nearby/internal/session"
	"nearby/internal/usecase"
	"nearby/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectSession(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
		metrics.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewProfileRepository,
			postgres.NewAuthRepository,
			postgres.NewRefreshTokenRepository,
			postgres.NewServiceRepository,
			postgres.NewBookingRepository,
			postgres.NewReviewRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			google.NewOAuthService,
			notification.NewNotificationService,
			pubsub.NewEventPublisher,
			storage.NewBlobStorage,
			newQRCodeService,
		),
	)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M", "")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.QRCode.BaseURL)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewUserService,
			impl.NewProfileService,
			impl.NewServiceService,
			impl.NewBookingService,
			impl.NewReviewService,
		),
	)
}

// injectSession wires the in-process session bus and the observable session
// store derived from it. The store starts with the bus's current session and
// tears down with the application.
func injectSession() fx.Option {
	return fx.Options(
		fx.Provide(
			session.NewBus,
			newSessionStore,
		),
		// The store has no downstream consumers in the graph; invoke it so
		// its lifecycle hooks are registered.
		fx.Invoke(func(*session.Store) {}),
	)
}

type sessionStoreParams struct {
	fx.In
	fx.Lifecycle

	Bus      *session.Bus
	Profiles usecase.ProfileUsecase
	Logger   *slog.Logger
}

func newSessionStore(params sessionStoreParams) *session.Store {
	store := session.NewStore(params.Bus, params.Profiles, params.Logger)

	params.Append(fx.Hook{
		OnStart: store.Initialize,
		OnStop: func(context.Context) error {
			store.Close()

			return nil
		},
	})

	return store
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewUserHandler,
			handler.NewProfileHandler,
			handler.NewServiceHandler,
			handler.NewBookingHandler,
			handler.NewReviewHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
