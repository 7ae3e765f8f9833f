package worker

import (
	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/config"
	"github.com/civicdesk/grievance-service/internal/events"
	"github.com/civicdesk/grievance-service/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to grievance events and
// returns the running service.
func StartNotificationWorker(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *service.NotificationService {
	if dispatcher == nil {
		return nil
	}
	notifications := service.NewNotificationService(dispatcher, logger, cfg)
	notifications.RegisterHandlers()
	logger.Info("notification worker started",
		zap.Bool("email", cfg.EmailFrom != ""),
		zap.Bool("webhook", cfg.WebhookURL != ""))
	return notifications
}
