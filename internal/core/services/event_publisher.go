package services

import (
	"context"
	"log/slog"

	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	portssvc "github.com/gigbridge/gigbridge_backend/internal/core/ports/services"
	"github.com/gigbridge/gigbridge_backend/internal/middleware"
)

// logEventPublisher writes domain events to the structured log, where an
// external dispatcher can pick them up. Publishing never fails the operation
// that emitted the event.
type logEventPublisher struct{}

// NewLogEventPublisher creates the default best-effort event publisher.
func NewLogEventPublisher() portssvc.EventPublisher {
	return &logEventPublisher{}
}

var _ portssvc.EventPublisher = (*logEventPublisher)(nil)

func (p *logEventPublisher) Publish(ctx context.Context, event domain.Event) {
	middleware.GetLoggerFromCtx(ctx).Info("Domain event",
		slog.String("kind", string(event.Kind)),
		slog.String("workspace_id", event.WorkspaceID),
		slog.String("milestone_id", event.MilestoneID),
		slog.String("entry_id", event.EntryID),
		slog.String("actor_id", event.ActorID),
		slog.Time("occurred_at", event.OccurredAt),
	)
}
