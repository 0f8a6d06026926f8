package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/risk-service/internal/application/dto"
	"github.com/bibbank/risk-service/internal/domain/port"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
)

// AssessRiskUseCase handles re-assessing the severity and probability of a risk.
type AssessRiskUseCase struct {
	repo      port.RiskRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewAssessRiskUseCase creates a new AssessRiskUseCase.
func NewAssessRiskUseCase(
	repo port.RiskRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *AssessRiskUseCase {
	return &AssessRiskUseCase{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute re-assesses a risk and publishes a RiskAssessed event.
func (uc *AssessRiskUseCase) Execute(ctx context.Context, req dto.AssessRiskRequest) (dto.RiskResponse, error) {
	uc.logger.Info("assessing risk",
		"risk_id", req.RiskID,
		"severity", req.Severity,
		"probability", req.Probability,
	)

	severity, err := valueobject.NewSeverity(req.Severity)
	if err != nil {
		return dto.RiskResponse{}, fmt.Errorf("invalid severity: %w", err)
	}
	probability, err := valueobject.NewProbability(req.Probability)
	if err != nil {
		return dto.RiskResponse{}, fmt.Errorf("invalid probability: %w", err)
	}

	risk, err := uc.repo.FindByID(ctx, req.RiskID)
	if err != nil {
		return dto.RiskResponse{}, fmt.Errorf("failed to find risk %d: %w", req.RiskID, err)
	}

	now := time.Now().UTC()
	saved, err := uc.repo.Save(ctx, risk.Assess(severity, probability, now))
	if err != nil {
		return dto.RiskResponse{}, fmt.Errorf("failed to save assessed risk: %w", err)
	}

	uc.logger.Info("risk assessed",
		"risk_id", saved.ID(),
		"old_score", risk.Score().Int(),
		"new_score", saved.Score().Int(),
	)

	resp := toRiskResponse(saved)
	if err := publishEvents(ctx, uc.publisher, uc.logger, saved.ID(), assessedEvent(risk, saved, req.ActorID, now)); err != nil {
		return resp, err
	}
	return resp, nil
}
