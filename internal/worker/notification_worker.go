package worker

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// StartNotificationWorker registers notification handlers on the dispatcher
// and, when a redis broadcaster is present, starts the pub/sub listener that
// feeds the local hub.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, broadcaster *events.RedisBroadcaster, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()

	if broadcaster == nil {
		return
	}
	go func() {
		if err := broadcaster.Listen(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("broadcast listener stopped", zap.Error(err))
		}
	}()
}
