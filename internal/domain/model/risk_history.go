package model

import (
	"maps"
	"time"

	"github.com/bibbank/risk-service/internal/domain/valueobject"
)

// RiskHistory is an immutable audit record describing one change to a risk.
// Records are only ever appended; nothing in the domain updates or deletes them.
type RiskHistory struct {
	id        int64
	riskID    int64
	action    valueobject.HistoryAction
	changes   map[string]any
	actorID   int64
	createdAt time.Time
}

// RecordHistory creates a new audit record. changes may be nil and actorID
// is zero for system-initiated changes.
func RecordHistory(
	riskID int64,
	action valueobject.HistoryAction,
	changes map[string]any,
	actorID int64,
	now time.Time,
) RiskHistory {
	return RiskHistory{
		riskID:    riskID,
		action:    action,
		changes:   maps.Clone(changes),
		actorID:   actorID,
		createdAt: now,
	}
}

// ReconstructRiskHistory recreates a RiskHistory from persisted data.
func ReconstructRiskHistory(
	id int64,
	riskID int64,
	action valueobject.HistoryAction,
	changes map[string]any,
	actorID int64,
	createdAt time.Time,
) RiskHistory {
	return RiskHistory{
		id:        id,
		riskID:    riskID,
		action:    action,
		changes:   changes,
		actorID:   actorID,
		createdAt: createdAt,
	}
}

// WithID returns a copy carrying the identifier assigned by persistence.
func (h RiskHistory) WithID(id int64) RiskHistory {
	h.changes = maps.Clone(h.changes)
	h.id = id
	return h
}

func (h RiskHistory) ID() int64                         { return h.id }
func (h RiskHistory) RiskID() int64                     { return h.riskID }
func (h RiskHistory) Action() valueobject.HistoryAction { return h.action }
func (h RiskHistory) ActorID() int64                    { return h.actorID }
func (h RiskHistory) CreatedAt() time.Time              { return h.createdAt }

// Changes returns a copy of the recorded diff, nil when none was recorded.
func (h RiskHistory) Changes() map[string]any {
	return maps.Clone(h.changes)
}
