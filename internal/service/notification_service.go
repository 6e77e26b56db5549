package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-ticketing/internal/config"
	"github.com/spec-kit/crm-ticketing/internal/events"
)

// NotificationService logs domain events as they happen. Delivery (email,
// webhooks) is stubbed: the endpoints are configured but only logged
// against, since the system defines no outbound delivery.
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
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketEvent)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketEvent)
	n.dispatcher.Subscribe(events.EventTicketPriorityChanged, n.handleTicketEvent)
	n.dispatcher.Subscribe(events.EventCommentAdded, n.handleCommentAdded)
}

func (n *NotificationService) handleTicketEvent(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("ticket_id", event.TicketID),
		zap.String("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)))
}
