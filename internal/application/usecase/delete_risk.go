package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/risk-service/internal/application/dto"
	"github.com/bibbank/risk-service/internal/domain/port"
)

// DeleteRiskUseCase handles removing a risk.
type DeleteRiskUseCase struct {
	repo   port.RiskRepository
	logger *slog.Logger
}

// NewDeleteRiskUseCase creates a new DeleteRiskUseCase.
func NewDeleteRiskUseCase(repo port.RiskRepository, logger *slog.Logger) *DeleteRiskUseCase {
	return &DeleteRiskUseCase{
		repo:   repo,
		logger: logger,
	}
}

// Execute deletes the risk. Its audit trail is kept.
func (uc *DeleteRiskUseCase) Execute(ctx context.Context, req dto.DeleteRiskRequest) error {
	risk, err := uc.repo.FindByID(ctx, req.RiskID)
	if err != nil {
		return fmt.Errorf("failed to find risk %d: %w", req.RiskID, err)
	}

	if err := uc.repo.Delete(ctx, risk); err != nil {
		return fmt.Errorf("failed to delete risk %d: %w", req.RiskID, err)
	}

	uc.logger.Info("risk deleted", "risk_id", req.RiskID)
	return nil
}
