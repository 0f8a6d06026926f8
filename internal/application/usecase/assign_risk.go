package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/risk-service/internal/application/dto"
	"github.com/bibbank/risk-service/internal/domain/port"
)

// AssignRiskUseCase handles linking a risk to a site and/or a responsible user.
type AssignRiskUseCase struct {
	repo   port.RiskRepository
	logger *slog.Logger
}

// NewAssignRiskUseCase creates a new AssignRiskUseCase.
func NewAssignRiskUseCase(repo port.RiskRepository, logger *slog.Logger) *AssignRiskUseCase {
	return &AssignRiskUseCase{
		repo:   repo,
		logger: logger,
	}
}

// Execute applies the requested assignments. Unset fields are left as they are.
func (uc *AssignRiskUseCase) Execute(ctx context.Context, req dto.AssignRiskRequest) (dto.RiskResponse, error) {
	if req.SiteID == nil && req.AssignedToID == nil {
		return dto.RiskResponse{}, fmt.Errorf("site_id or assigned_to_id is required")
	}

	risk, err := uc.repo.FindByID(ctx, req.RiskID)
	if err != nil {
		return dto.RiskResponse{}, fmt.Errorf("failed to find risk %d: %w", req.RiskID, err)
	}

	now := time.Now().UTC()
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

	uc.logger.Info("risk assigned",
		"risk_id", saved.ID(),
		"site_id", saved.SiteID(),
		"assigned_to_id", saved.AssignedToID(),
	)

	return toRiskResponse(saved), nil
}
