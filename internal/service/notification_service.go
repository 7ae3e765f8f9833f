package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/civicdesk/grievance-service/internal/config"
	"github.com/civicdesk/grievance-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventGrievanceSubmitted, n.handleGrievanceSubmitted)
	n.dispatcher.Subscribe(events.EventGrievanceResponded, n.handleGrievanceResponded)
}

func (n *NotificationService) handleGrievanceSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("GrievanceSubmitted", zap.Int64("grievance_id", event.GrievanceID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

// handleGrievanceResponded tells the filer their grievance has an answer.
func (n *NotificationService) handleGrievanceResponded(ctx context.Context, event events.Event) error {
	n.logger.Info("GrievanceResponded", zap.Int64("grievance_id", event.GrievanceID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("grievance_id", event.GrievanceID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("grievance_id", event.GrievanceID),
		zap.String("event_type", string(event.Type)))
}
