package port

import (
	"context"

	"github.com/bibbank/risk-service/internal/domain/model"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
	"github.com/bibbank/risk-service/pkg/events"
)

// CriticalScoreThreshold is the minimum score returned by FindCriticalRisks.
const CriticalScoreThreshold = 20

// RiskRepository defines the persistence port for Risk aggregates.
// Lookups of a missing risk return an error matching domainerr.ErrNotFound.
type RiskRepository interface {
	// Save inserts or updates a risk. On first save the returned risk carries
	// its newly assigned identifier.
	Save(ctx context.Context, risk model.Risk) (model.Risk, error)

	// Delete removes a risk.
	Delete(ctx context.Context, risk model.Risk) error

	// FindByID retrieves a risk by its identifier.
	FindByID(ctx context.Context, id int64) (model.Risk, error)

	// FindAll returns every risk, newest first.
	FindAll(ctx context.Context) ([]model.Risk, error)

	// FindByStatus returns risks in the given status, newest first.
	FindByStatus(ctx context.Context, status valueobject.RiskStatus) ([]model.Risk, error)

	// FindBySite returns risks linked to the given site, newest first.
	FindBySite(ctx context.Context, siteID int64) ([]model.Risk, error)

	// FindCriticalRisks returns risks scoring at least CriticalScoreThreshold,
	// highest score first.
	FindCriticalRisks(ctx context.Context) ([]model.Risk, error)
}

// RiskHistoryRepository defines the persistence port for the audit trail.
type RiskHistoryRepository interface {
	// Save appends a history record and returns it with its identifier.
	Save(ctx context.Context, history model.RiskHistory) (model.RiskHistory, error)

	// FindByRiskID returns the records of one risk, newest first.
	FindByRiskID(ctx context.Context, riskID int64) ([]model.RiskHistory, error)

	// FindAll returns every record, newest first.
	FindAll(ctx context.Context) ([]model.RiskHistory, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish delivers events to every subscriber synchronously and in order.
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// EventHandler reacts to a published domain event.
type EventHandler interface {
	Handle(ctx context.Context, event events.DomainEvent) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event events.DomainEvent) error

// Handle calls f(ctx, event).
func (f EventHandlerFunc) Handle(ctx context.Context, event events.DomainEvent) error {
	return f(ctx, event)
}

// HealthChecker reports whether a backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
