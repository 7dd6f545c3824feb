package service

import "context"

// NotificationService sends push notifications to device tokens.
// All marketplace pushes are best-effort; a failure never fails the
// operation that triggered it.
type NotificationService interface {
	// SendSingleNotification sends a push notification to one device token.
	SendSingleNotification(ctx context.Context, token, title, body string, data map[string]string) error
}
