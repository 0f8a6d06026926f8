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
)

// CreateRiskUseCase handles registering a new risk.
type CreateRiskUseCase struct {
	repo      port.RiskRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewCreateRiskUseCase creates a new CreateRiskUseCase.
func NewCreateRiskUseCase(
	repo port.RiskRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *CreateRiskUseCase {
	return &CreateRiskUseCase{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute creates a draft risk, optionally assigns it, persists it and
// publishes a RiskCreated event.
func (uc *CreateRiskUseCase) Execute(ctx context.Context, req dto.CreateRiskRequest) (dto.RiskResponse, error) {
	uc.logger.Info("creating risk", "title", req.Title, "type", req.Type)

	severity, err := valueobject.NewSeverity(req.Severity)
	if err != nil {
		return dto.RiskResponse{}, fmt.Errorf("invalid severity: %w", err)
	}
	probability, err := valueobject.NewProbability(req.Probability)
	if err != nil {
		return dto.RiskResponse{}, fmt.Errorf("invalid probability: %w", err)
	}

	now := time.Now().UTC()
	risk, err := model.NewRisk(req.Title, req.Type, severity, probability, req.Description, now)
	if err != nil {
		return dto.RiskResponse{}, fmt.Errorf("failed to create risk: %w", err)
	}

	if req.SiteID != nil {
		risk = risk.AssignToSite(*req.SiteID, now)
	}
	if req.AssignedToID != nil {
		risk = risk.AssignToUser(*req.AssignedToID, now)
	}

	saved, err := uc.repo.Save(ctx, risk)
	if err != nil {
		return dto.RiskResponse{}, fmt.Errorf("failed to save risk: %w", err)
	}

	uc.logger.Info("risk created",
		"risk_id", saved.ID(),
		"score", saved.Score().Int(),
		"score_level", saved.Score().Level(),
	)

	created := event.NewRiskCreated(
		saved.ID(),
		saved.Title(),
		saved.Type().String(),
		saved.Severity().Int(),
		saved.Probability().Int(),
		saved.Score().Int(),
		saved.Status().String(),
		req.ActorID,
		now,
	)

	resp := toRiskResponse(saved)
	if err := publishEvents(ctx, uc.publisher, uc.logger, saved.ID(), created); err != nil {
		return resp, err
	}
	return resp, nil
}
