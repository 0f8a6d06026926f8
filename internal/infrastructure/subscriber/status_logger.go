package subscriber

import (
	"context"
	"log/slog"

	"github.com/bibbank/risk-service/internal/domain/event"
	"github.com/bibbank/risk-service/pkg/events"
)

// StatusLogger writes one log line per status transition.
type StatusLogger struct {
	logger *slog.Logger
}

// NewStatusLogger creates a new StatusLogger.
func NewStatusLogger(logger *slog.Logger) *StatusLogger {
	return &StatusLogger{logger: logger}
}

func (s *StatusLogger) Handle(ctx context.Context, evt events.DomainEvent) error {
	e, ok := evt.(event.RiskStatusChanged)
	if !ok {
		return nil
	}
	s.logger.InfoContext(ctx, "risk status changed",
		slog.Int64("risk_id", e.RiskID),
		slog.String("old_status", e.OldStatus),
		slog.String("new_status", e.NewStatus),
		slog.Time("occurred_at", e.OccurredAt()),
	)
	return nil
}
