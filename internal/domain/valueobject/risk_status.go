package valueobject

import "fmt"

// RiskStatus is the workflow state of a risk.
type RiskStatus struct {
	value string
}

const (
	riskStatusDraft     = "draft"
	riskStatusOpen      = "open"
	riskStatusAssessed  = "assessed"
	riskStatusMitigated = "mitigated"
	riskStatusClosed    = "closed"
)

var (
	RiskStatusDraft     = RiskStatus{value: riskStatusDraft}
	RiskStatusOpen      = RiskStatus{value: riskStatusOpen}
	RiskStatusAssessed  = RiskStatus{value: riskStatusAssessed}
	RiskStatusMitigated = RiskStatus{value: riskStatusMitigated}
	RiskStatusClosed    = RiskStatus{value: riskStatusClosed}
)

var validRiskStatuses = map[string]RiskStatus{
	riskStatusDraft:     RiskStatusDraft,
	riskStatusOpen:      RiskStatusOpen,
	riskStatusAssessed:  RiskStatusAssessed,
	riskStatusMitigated: RiskStatusMitigated,
	riskStatusClosed:    RiskStatusClosed,
}

// riskStatusTransitions is the complete workflow. closed has no exits.
var riskStatusTransitions = map[string][]RiskStatus{
	riskStatusDraft:     {RiskStatusOpen},
	riskStatusOpen:      {RiskStatusAssessed, RiskStatusClosed},
	riskStatusAssessed:  {RiskStatusMitigated, RiskStatusClosed},
	riskStatusMitigated: {RiskStatusClosed},
	riskStatusClosed:    {},
}

// RiskStatuses returns every status in workflow order.
func RiskStatuses() []RiskStatus {
	return []RiskStatus{RiskStatusDraft, RiskStatusOpen, RiskStatusAssessed, RiskStatusMitigated, RiskStatusClosed}
}

// NewRiskStatus creates a RiskStatus from a raw string.
func NewRiskStatus(s string) (RiskStatus, error) {
	v, ok := validRiskStatuses[s]
	if !ok {
		return RiskStatus{}, fmt.Errorf("invalid risk status: %q", s)
	}
	return v, nil
}

// AllowedTransitions returns the statuses reachable in one step.
func (s RiskStatus) AllowedTransitions() []RiskStatus {
	next := riskStatusTransitions[s.value]
	out := make([]RiskStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether target is reachable in one step.
func (s RiskStatus) CanTransitionTo(target RiskStatus) bool {
	for _, next := range riskStatusTransitions[s.value] {
		if next.value == target.value {
			return true
		}
	}
	return false
}

// IsDraft returns true for the initial status.
func (s RiskStatus) IsDraft() bool { return s.value == riskStatusDraft }

// IsClosed returns true for the terminal status.
func (s RiskStatus) IsClosed() bool { return s.value == riskStatusClosed }

// String returns the string representation of the status.
func (s RiskStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s RiskStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s RiskStatus) Equal(other RiskStatus) bool { return s.value == other.value }
