package notification

import (
	"context"
	"log/slog"

	"nearby/config"
	"nearby/internal/domain/service"

	"go.uber.org/fx"
)

// noopNotificationService swallows pushes when Firebase is not configured.
type noopNotificationService struct {
	logger *slog.Logger
}

func (s *noopNotificationService) SendSingleNotification(_ context.Context, token, title, _ string, _ map[string]string) error {
	s.logger.Debug("[NoopNotification] Push disabled, skipping",
		slog.String("token", token),
		slog.String("title", title),
	)

	return nil
}

// Params holds dependencies for NotificationService, injected by Fx
type Params struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewNotificationService creates the push sender, falling back to a no-op
// implementation when Firebase credentials are not configured.
func NewNotificationService(params Params) (service.NotificationService, error) {
	cfg := params.Config.Firebase
	if cfg == nil || cfg.CredentialsPath == "" {
		params.Logger.Info("Firebase not configured, using no-op notification service")

		return &noopNotificationService{logger: params.Logger}, nil
	}

	return NewFirebaseService(params.Ctx, cfg.CredentialsPath)
}

// Module provides the notification FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewNotificationService),
)
