package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/article-service/internal/config"
	"github.com/spec-kit/article-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		logger: logger,
		cfg:    cfg,
	}
}

// EventTypes lists the events the service reacts to.
func (n *NotificationService) EventTypes() []events.EventType {
	return []events.EventType{
		events.EventUserRegistered,
		events.EventPasswordChanged,
		events.EventCommentPosted,
	}
}

// Handle routes one event to its notification handler. Unknown types are ignored.
func (n *NotificationService) Handle(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.EventUserRegistered:
		return n.handleUserRegistered(ctx, event)
	case events.EventPasswordChanged:
		return n.handlePasswordChanged(ctx, event)
	case events.EventCommentPosted:
		return n.handleCommentPosted(ctx, event)
	default:
		return nil
	}
}

// RegisterHandlers subscribes the service directly, running handlers inline
// with Publish.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	for _, eventType := range n.EventTypes() {
		dispatcher.Subscribe(eventType, n.Handle)
	}
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("UserRegistered", zap.String("user_id", event.SubjectID), zap.String("actor_id", event.Actor.ID))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

// Account owners are told about password changes so an unexpected one can be reported.
func (n *NotificationService) handlePasswordChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("PasswordChanged",
		zap.String("user_id", event.SubjectID),
		zap.String("actor_id", event.Actor.ID),
		zap.String("actor_role", event.Actor.Role))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleCommentPosted(ctx context.Context, event events.Event) error {
	n.logger.Info("CommentPosted", zap.String("article_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
