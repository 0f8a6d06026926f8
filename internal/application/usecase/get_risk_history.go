package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/risk-service/internal/application/dto"
	"github.com/bibbank/risk-service/internal/domain/model"
	"github.com/bibbank/risk-service/internal/domain/port"
)

// GetRiskHistoryUseCase handles reading the audit trail.
type GetRiskHistoryUseCase struct {
	risks   port.RiskRepository
	history port.RiskHistoryRepository
	logger  *slog.Logger
}

// NewGetRiskHistoryUseCase creates a new GetRiskHistoryUseCase.
func NewGetRiskHistoryUseCase(
	risks port.RiskRepository,
	history port.RiskHistoryRepository,
	logger *slog.Logger,
) *GetRiskHistoryUseCase {
	return &GetRiskHistoryUseCase{
		risks:   risks,
		history: history,
		logger:  logger,
	}
}

// Execute returns the audit records of one risk, or of every risk when no
// risk ID is given, newest first.
func (uc *GetRiskHistoryUseCase) Execute(ctx context.Context, req dto.GetRiskHistoryRequest) (dto.GetRiskHistoryResponse, error) {
	var (
		entries []model.RiskHistory
		err     error
	)

	if req.RiskID != 0 {
		if _, err := uc.risks.FindByID(ctx, req.RiskID); err != nil {
			return dto.GetRiskHistoryResponse{}, fmt.Errorf("failed to find risk %d: %w", req.RiskID, err)
		}
		entries, err = uc.history.FindByRiskID(ctx, req.RiskID)
	} else {
		entries, err = uc.history.FindAll(ctx)
	}
	if err != nil {
		return dto.GetRiskHistoryResponse{}, fmt.Errorf("failed to load risk history: %w", err)
	}

	resp := dto.GetRiskHistoryResponse{
		Entries: make([]dto.RiskHistoryResponse, 0, len(entries)),
	}
	for _, h := range entries {
		resp.Entries = append(resp.Entries, toHistoryResponse(h))
	}
	return resp, nil
}
