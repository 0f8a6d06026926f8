package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bibbank/risk-service/internal/application/dto"
	"github.com/bibbank/risk-service/internal/domain/model"
	"github.com/bibbank/risk-service/internal/domain/port"
	"github.com/bibbank/risk-service/pkg/events"
)

// ErrEventDelivery marks a failure to deliver domain events after the state
// change had already been persisted. The response returned alongside it
// reflects the saved state.
var ErrEventDelivery = errors.New("event delivery failed")

func toRiskResponse(r model.Risk) dto.RiskResponse {
	resp := dto.RiskResponse{
		ID:          r.ID(),
		Title:       r.Title(),
		Description: r.Description(),
		Type:        r.Type().String(),
		Severity:    r.Severity().Int(),
		Probability: r.Probability().Int(),
		Status:      r.Status().String(),
		Score:       r.Score().Int(),
		ScoreLevel:  string(r.Score().Level()),
		CreatedAt:   r.CreatedAt(),
		UpdatedAt:   r.UpdatedAt(),
	}
	if r.HasSite() {
		siteID := r.SiteID()
		resp.SiteID = &siteID
	}
	if r.IsAssigned() {
		userID := r.AssignedToID()
		resp.AssignedToID = &userID
	}
	return resp
}

func toRiskResponses(risks []model.Risk) []dto.RiskResponse {
	out := make([]dto.RiskResponse, 0, len(risks))
	for _, r := range risks {
		out = append(out, toRiskResponse(r))
	}
	return out
}

func toHistoryResponse(h model.RiskHistory) dto.RiskHistoryResponse {
	resp := dto.RiskHistoryResponse{
		ID:        h.ID(),
		RiskID:    h.RiskID(),
		Action:    h.Action().String(),
		Changes:   h.Changes(),
		CreatedAt: h.CreatedAt(),
	}
	if h.ActorID() != 0 {
		actorID := h.ActorID()
		resp.ActorID = &actorID
	}
	return resp
}

// publishEvents hands events to the publisher. A delivery failure is logged and
// returned wrapped in ErrEventDelivery.
func publishEvents(
	ctx context.Context,
	publisher port.EventPublisher,
	logger *slog.Logger,
	riskID int64,
	evts ...events.DomainEvent,
) error {
	if len(evts) == 0 {
		return nil
	}
	if err := publisher.Publish(ctx, evts...); err != nil {
		logger.Error("failed to publish domain events",
			"error", err,
			"risk_id", riskID,
			"event_count", len(evts),
		)
		return fmt.Errorf("%w for risk %d: %w", ErrEventDelivery, riskID, err)
	}
	return nil
}
