package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/risk-service/internal/application/dto"
	"github.com/bibbank/risk-service/internal/domain/event"
	"github.com/bibbank/risk-service/internal/domain/model"
	"github.com/bibbank/risk-service/internal/domain/port"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
	"github.com/bibbank/risk-service/pkg/events"
)

// UpdateRiskUseCase handles editing the descriptive fields of a risk and,
// when both severity and probability are supplied, re-assessing it.
type UpdateRiskUseCase struct {
	repo      port.RiskRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewUpdateRiskUseCase creates a new UpdateRiskUseCase.
func NewUpdateRiskUseCase(
	repo port.RiskRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *UpdateRiskUseCase {
	return &UpdateRiskUseCase{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute updates a risk. Supplying only one of severity and probability
// leaves the assessment unchanged.
func (uc *UpdateRiskUseCase) Execute(ctx context.Context, req dto.UpdateRiskRequest) (dto.RiskResponse, error) {
	uc.logger.Info("updating risk", "risk_id", req.RiskID)

	reassess := req.Severity != nil && req.Probability != nil
	var (
		severity    valueobject.Severity
		probability valueobject.Probability
		err         error
	)
	if reassess {
		if severity, err = valueobject.NewSeverity(*req.Severity); err != nil {
			return dto.RiskResponse{}, fmt.Errorf("invalid severity: %w", err)
		}
		if probability, err = valueobject.NewProbability(*req.Probability); err != nil {
			return dto.RiskResponse{}, fmt.Errorf("invalid probability: %w", err)
		}
	}

	risk, err := uc.repo.FindByID(ctx, req.RiskID)
	if err != nil {
		return dto.RiskResponse{}, fmt.Errorf("failed to find risk %d: %w", req.RiskID, err)
	}

	now := time.Now().UTC()
	updated, err := risk.Update(req.Title, req.Type, req.Description, now)
	if err != nil {
		return dto.RiskResponse{}, fmt.Errorf("failed to update risk: %w", err)
	}
	if reassess {
		updated = updated.Assess(severity, probability, now)
	}

	saved, err := uc.repo.Save(ctx, updated)
	if err != nil {
		return dto.RiskResponse{}, fmt.Errorf("failed to save updated risk: %w", err)
	}

	var collector events.EventCollector
	if changes := descriptiveChanges(risk, saved); len(changes) > 0 {
		collector.Record(event.NewRiskUpdated(saved.ID(), changes, req.ActorID, now))
	}
	if reassess {
		collector.Record(assessedEvent(risk, saved, req.ActorID, now))
	}

	uc.logger.Info("risk updated", "risk_id", saved.ID(), "reassessed", reassess)

	resp := toRiskResponse(saved)
	if err := publishEvents(ctx, uc.publisher, uc.logger, saved.ID(), collector.ClearEvents()...); err != nil {
		return resp, err
	}
	return resp, nil
}

// descriptiveChanges lists the descriptive fields that differ between before and after.
func descriptiveChanges(before, after model.Risk) map[string]event.FieldChange {
	changes := make(map[string]event.FieldChange)
	if before.Title() != after.Title() {
		changes["title"] = event.FieldChange{Old: before.Title(), New: after.Title()}
	}
	if !before.Type().Equal(after.Type()) {
		changes["type"] = event.FieldChange{Old: before.Type().String(), New: after.Type().String()}
	}
	if before.Description() != after.Description() {
		changes["description"] = event.FieldChange{Old: before.Description(), New: after.Description()}
	}
	return changes
}

func assessedEvent(before, after model.Risk, actorID int64, now time.Time) event.RiskAssessed {
	return event.NewRiskAssessed(
		after.ID(),
		before.Severity().Int(), after.Severity().Int(),
		before.Probability().Int(), after.Probability().Int(),
		before.Score().Int(), after.Score().Int(),
		actorID,
		now,
	)
}
