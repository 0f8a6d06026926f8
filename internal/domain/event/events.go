package event

import (
	"strconv"
	"time"

	"github.com/bibbank/risk-service/pkg/events"
)

// AggregateType is the aggregate name stamped on every risk event.
const AggregateType = "Risk"

// Event type names.
const (
	TypeRiskCreated       = "risk.created"
	TypeRiskUpdated       = "risk.updated"
	TypeRiskAssessed      = "risk.assessed"
	TypeRiskStatusChanged = "risk.status_changed"
)

func newBaseEvent(eventType string, riskID int64, occurredAt time.Time) events.BaseEvent {
	return events.NewBaseEvent(eventType, strconv.FormatInt(riskID, 10), AggregateType, occurredAt)
}

// RiskStatusChanged is published after a status transition has been persisted.
type RiskStatusChanged struct {
	events.BaseEvent
	RiskID    int64  `json:"risk_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	ActorID   int64  `json:"actor_id,omitempty"`
}

// NewRiskStatusChanged creates a new RiskStatusChanged event.
func NewRiskStatusChanged(riskID int64, oldStatus, newStatus string, actorID int64, occurredAt time.Time) RiskStatusChanged {
	return RiskStatusChanged{
		BaseEvent: newBaseEvent(TypeRiskStatusChanged, riskID, occurredAt),
		RiskID:    riskID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ActorID:   actorID,
	}
}

// RiskCreated is published after a new risk has been persisted.
type RiskCreated struct {
	events.BaseEvent
	RiskID      int64  `json:"risk_id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Severity    int    `json:"severity"`
	Probability int    `json:"probability"`
	Score       int    `json:"score"`
	Status      string `json:"status"`
	ActorID     int64  `json:"actor_id,omitempty"`
}

// NewRiskCreated creates a new RiskCreated event.
func NewRiskCreated(
	riskID int64,
	title, riskType string,
	severity, probability, score int,
	status string,
	actorID int64,
	occurredAt time.Time,
) RiskCreated {
	return RiskCreated{
		BaseEvent:   newBaseEvent(TypeRiskCreated, riskID, occurredAt),
		RiskID:      riskID,
		Title:       title,
		Type:        riskType,
		Severity:    severity,
		Probability: probability,
		Score:       score,
		Status:      status,
		ActorID:     actorID,
	}
}

// FieldChange holds the before and after value of one field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// RiskUpdated is published after the descriptive fields of a risk changed.
// Changes only lists fields whose value actually differs.
type RiskUpdated struct {
	events.BaseEvent
	RiskID  int64                  `json:"risk_id"`
	Changes map[string]FieldChange `json:"changes"`
	ActorID int64                  `json:"actor_id,omitempty"`
}

// NewRiskUpdated creates a new RiskUpdated event.
func NewRiskUpdated(riskID int64, changes map[string]FieldChange, actorID int64, occurredAt time.Time) RiskUpdated {
	return RiskUpdated{
		BaseEvent: newBaseEvent(TypeRiskUpdated, riskID, occurredAt),
		RiskID:    riskID,
		Changes:   changes,
		ActorID:   actorID,
	}
}

// RiskAssessed is published after a risk was re-assessed.
type RiskAssessed struct {
	events.BaseEvent
	RiskID         int64 `json:"risk_id"`
	OldSeverity    int   `json:"old_severity"`
	NewSeverity    int   `json:"new_severity"`
	OldProbability int   `json:"old_probability"`
	NewProbability int   `json:"new_probability"`
	OldScore       int   `json:"old_score"`
	NewScore       int   `json:"new_score"`
	ActorID        int64 `json:"actor_id,omitempty"`
}

// NewRiskAssessed creates a new RiskAssessed event.
func NewRiskAssessed(
	riskID int64,
	oldSeverity, newSeverity int,
	oldProbability, newProbability int,
	oldScore, newScore int,
	actorID int64,
	occurredAt time.Time,
) RiskAssessed {
	return RiskAssessed{
		BaseEvent:      newBaseEvent(TypeRiskAssessed, riskID, occurredAt),
		RiskID:         riskID,
		OldSeverity:    oldSeverity,
		NewSeverity:    newSeverity,
		OldProbability: oldProbability,
		NewProbability: newProbability,
		OldScore:       oldScore,
		NewScore:       newScore,
		ActorID:        actorID,
	}
}
