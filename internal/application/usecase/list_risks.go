package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bibbank/risk-service/internal/application/dto"
	"github.com/bibbank/risk-service/internal/domain/model"
	"github.com/bibbank/risk-service/internal/domain/port"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
)

// ListRisksUseCase handles listing risks with an optional filter.
type ListRisksUseCase struct {
	repo   port.RiskRepository
	logger *slog.Logger
}

// NewListRisksUseCase creates a new ListRisksUseCase.
func NewListRisksUseCase(repo port.RiskRepository, logger *slog.Logger) *ListRisksUseCase {
	return &ListRisksUseCase{
		repo:   repo,
		logger: logger,
	}
}

// Execute lists risks. Critical risks are ordered by score, everything else
// newest first.
func (uc *ListRisksUseCase) Execute(ctx context.Context, req dto.ListRisksRequest) (dto.ListRisksResponse, error) {
	uc.logger.Debug("listing risks",
		"status", req.Status,
		"site_id", req.SiteID,
		"critical_only", req.CriticalOnly,
	)

	var (
		risks []model.Risk
		err   error
	)

	switch {
	case req.CriticalOnly:
		risks, err = uc.repo.FindCriticalRisks(ctx)
	case req.Status != "":
		status, parseErr := valueobject.NewRiskStatus(req.Status)
		if parseErr != nil {
			return dto.ListRisksResponse{}, fmt.Errorf("invalid status filter: %w", parseErr)
		}
		risks, err = uc.repo.FindByStatus(ctx, status)
	case req.SiteID != 0:
		risks, err = uc.repo.FindBySite(ctx, req.SiteID)
	default:
		risks, err = uc.repo.FindAll(ctx)
	}

	if err != nil {
		return dto.ListRisksResponse{}, fmt.Errorf("failed to list risks: %w", err)
	}

	return dto.ListRisksResponse{
		Risks:      toRiskResponses(risks),
		TotalCount: len(risks),
	}, nil
}
