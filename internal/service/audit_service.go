package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/srw-platform/portal/internal/events"
	"github.com/srw-platform/portal/internal/observability"
)

// AuditService records auth lifecycle events for operators: structured log
// lines plus metrics.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserLoggedIn, a.handleLoggedIn)
	a.dispatcher.Subscribe(events.EventUserLoggedOut, a.handleLoggedOut)
	a.dispatcher.Subscribe(events.EventSessionExpired, a.handleSessionExpired)
}

func (a *AuditService) handleLoggedIn(_ context.Context, event events.Event) error {
	a.logger.Info("UserLoggedIn", zap.String("session_id", event.SessionID), zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleLoggedOut(_ context.Context, event events.Event) error {
	a.logger.Info("UserLoggedOut", zap.String("session_id", event.SessionID), zap.Any("payload", event.Payload))

	outcome := "remote_ok"
	if payload, ok := event.Payload.(events.LoggedOutPayload); ok && !payload.RemoteOK {
		outcome = "local_only"
	}
	a.metrics.RecordLogout(outcome)
	return nil
}

func (a *AuditService) handleSessionExpired(_ context.Context, event events.Event) error {
	a.logger.Info("SessionExpired", zap.String("session_id", event.SessionID))
	return nil
}
