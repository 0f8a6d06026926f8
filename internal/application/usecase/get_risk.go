package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/risk-service/internal/application/dto"
	"github.com/bibbank/risk-service/internal/domain/port"
)

// GetRiskUseCase handles retrieving a single risk.
type GetRiskUseCase struct {
	repo   port.RiskRepository
	logger *slog.Logger
}

// NewGetRiskUseCase creates a new GetRiskUseCase.
func NewGetRiskUseCase(repo port.RiskRepository, logger *slog.Logger) *GetRiskUseCase {
	return &GetRiskUseCase{
		repo:   repo,
		logger: logger,
	}
}

// Execute retrieves a risk by ID.
func (uc *GetRiskUseCase) Execute(ctx context.Context, req dto.GetRiskRequest) (dto.RiskResponse, error) {
	risk, err := uc.repo.FindByID(ctx, req.RiskID)
	if err != nil {
		return dto.RiskResponse{}, fmt.Errorf("failed to find risk %d: %w", req.RiskID, err)
	}
	return toRiskResponse(risk), nil
}
