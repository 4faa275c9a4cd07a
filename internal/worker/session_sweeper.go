package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/srw-platform/portal/internal/events"
	"github.com/srw-platform/portal/internal/observability"
	"github.com/srw-platform/portal/internal/registry"
)

// SessionSweeper periodically clears expired sessions and evicts idle ones
// from the registry, publishing an event per expired session.
type SessionSweeper struct {
	registry   *registry.Registry
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	interval   time.Duration
}

// NewSessionSweeper builds the sweeper.
func NewSessionSweeper(reg *registry.Registry, dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		registry:   reg,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
		interval:   interval,
	}
}

// Run ticks until the context is canceled. Call in its own goroutine.
func (w *SessionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SessionSweeper) sweep(ctx context.Context) {
	result := w.registry.Sweep(time.Now())
	if len(result.Expired) == 0 && result.Evicted == 0 {
		return
	}

	for _, sid := range result.Expired {
		if w.dispatcher == nil {
			continue
		}
		_ = w.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventSessionExpired,
			SessionID: sid,
			Timestamp: time.Now(),
			Payload:   events.SessionExpiredPayload{},
		})
	}

	w.metrics.RecordSweep(len(result.Expired) + result.Evicted)
	w.logger.Info("session sweep",
		zap.Int("expired", len(result.Expired)),
		zap.Int("evicted", result.Evicted),
		zap.Int("tracked", w.registry.Len()),
	)
}
