package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bibbank/risk-service/internal/application/dto"
	"github.com/bibbank/risk-service/internal/domain/domainerr"
	"github.com/bibbank/risk-service/internal/domain/event"
	"github.com/bibbank/risk-service/internal/domain/port"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
)

// ChangeRiskStatusUseCase handles moving a risk along its workflow.
type ChangeRiskStatusUseCase struct {
	repo      port.RiskRepository
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewChangeRiskStatusUseCase creates a new ChangeRiskStatusUseCase.
func NewChangeRiskStatusUseCase(
	repo port.RiskRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *ChangeRiskStatusUseCase {
	return &ChangeRiskStatusUseCase{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute applies the transition, persists the risk and publishes exactly one
// RiskStatusChanged event.
func (uc *ChangeRiskStatusUseCase) Execute(ctx context.Context, req dto.ChangeRiskStatusRequest) (dto.RiskResponse, error) {
	uc.logger.Info("changing risk status", "risk_id", req.RiskID, "status", req.Status)

	risk, err := uc.repo.FindByID(ctx, req.RiskID)
	if err != nil {
		return dto.RiskResponse{}, fmt.Errorf("failed to find risk %d: %w", req.RiskID, err)
	}

	target, err := valueobject.NewRiskStatus(req.Status)
	if err != nil {
		return dto.RiskResponse{}, domainerr.New(
			domainerr.KindInvalidTransition,
			fmt.Sprintf("Cannot transition from %s to unknown status %q", risk.Status(), req.Status),
			map[string]any{"from": risk.Status().String(), "to": req.Status},
		)
	}

	oldStatus := risk.Status()
	now := time.Now().UTC()

	changed, err := risk.ChangeStatus(target, now)
	if err != nil {
		return dto.RiskResponse{}, fmt.Errorf("failed to change risk status: %w", err)
	}

	saved, err := uc.repo.Save(ctx, changed)
	if err != nil {
		return dto.RiskResponse{}, fmt.Errorf("failed to save risk: %w", err)
	}

	uc.logger.Info("risk status changed",
		"risk_id", saved.ID(),
		"old_status", oldStatus.String(),
		"new_status", saved.Status().String(),
	)

	evt := event.NewRiskStatusChanged(saved.ID(), oldStatus.String(), saved.Status().String(), req.ActorID, now)

	resp := toRiskResponse(saved)
	if err := publishEvents(ctx, uc.publisher, uc.logger, saved.ID(), evt); err != nil {
		return resp, err
	}
	return resp, nil
}

// CloseRiskUseCase handles closing a risk.
type CloseRiskUseCase struct {
	changeStatus *ChangeRiskStatusUseCase
}

// NewCloseRiskUseCase creates a new CloseRiskUseCase.
func NewCloseRiskUseCase(changeStatus *ChangeRiskStatusUseCase) *CloseRiskUseCase {
	return &CloseRiskUseCase{changeStatus: changeStatus}
}

// Execute transitions the risk to closed.
func (uc *CloseRiskUseCase) Execute(ctx context.Context, req dto.CloseRiskRequest) (dto.RiskResponse, error) {
	return uc.changeStatus.Execute(ctx, dto.ChangeRiskStatusRequest{
		RiskID:  req.RiskID,
		Status:  valueobject.RiskStatusClosed.String(),
		ActorID: req.ActorID,
	})
}
