// Package subscriber holds the event handlers wired onto the dispatcher.
package subscriber

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/risk-service/internal/domain/event"
	"github.com/bibbank/risk-service/internal/domain/model"
	"github.com/bibbank/risk-service/internal/domain/port"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
	"github.com/bibbank/risk-service/pkg/events"
)

// AuditRecorder writes exactly one RiskHistory record per risk event.
type AuditRecorder struct {
	repo   port.RiskHistoryRepository
	logger *slog.Logger
}

// NewAuditRecorder creates a new AuditRecorder.
func NewAuditRecorder(repo port.RiskHistoryRepository, logger *slog.Logger) *AuditRecorder {
	return &AuditRecorder{
		repo:   repo,
		logger: logger,
	}
}

// Handle implements port.EventHandler. Events it does not know are ignored.
func (a *AuditRecorder) Handle(ctx context.Context, evt events.DomainEvent) error {
	var (
		riskID  int64
		actorID int64
		action  valueobject.HistoryAction
		changes map[string]any
	)

	switch e := evt.(type) {
	case event.RiskStatusChanged:
		riskID, actorID = e.RiskID, e.ActorID
		action = valueobject.HistoryActionStatusChanged
		changes = map[string]any{
			"old_status": e.OldStatus,
			"new_status": e.NewStatus,
		}
	case event.RiskCreated:
		riskID, actorID = e.RiskID, e.ActorID
		action = valueobject.HistoryActionCreated
		changes = map[string]any{
			"title":       e.Title,
			"type":        e.Type,
			"severity":    e.Severity,
			"probability": e.Probability,
			"score":       e.Score,
		}
	case event.RiskUpdated:
		riskID, actorID = e.RiskID, e.ActorID
		action = valueobject.HistoryActionUpdated
		changes = make(map[string]any, len(e.Changes))
		for field, c := range e.Changes {
			changes[field] = map[string]any{"old": c.Old, "new": c.New}
		}
	case event.RiskAssessed:
		riskID, actorID = e.RiskID, e.ActorID
		action = valueobject.HistoryActionAssessed
		changes = map[string]any{
			"old_severity":    e.OldSeverity,
			"new_severity":    e.NewSeverity,
			"old_probability": e.OldProbability,
			"new_probability": e.NewProbability,
			"old_score":       e.OldScore,
			"new_score":       e.NewScore,
		}
	default:
		a.logger.DebugContext(ctx, "audit recorder ignoring event", slog.String("event_type", evt.EventType()))
		return nil
	}

	record := model.RecordHistory(riskID, action, changes, actorID, evt.OccurredAt())
	saved, err := a.repo.Save(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to record %s history for risk %d: %w", action, riskID, err)
	}

	a.logger.DebugContext(ctx, "history recorded",
		slog.Int64("history_id", saved.ID()),
		slog.Int64("risk_id", riskID),
		slog.String("action", action.String()),
	)
	return nil
}
