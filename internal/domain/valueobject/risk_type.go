package valueobject

import (
	"strings"

	"github.com/bibbank/risk-service/internal/domain/domainerr"
)

// RiskType classifies a risk. The set is closed.
type RiskType struct {
	value string
}

const (
	riskTypeSecurity    = "security"
	riskTypeEnvironment = "environment"
	riskTypeSocial      = "social"
	riskTypeCyber       = "cyber"
)

var (
	RiskTypeSecurity    = RiskType{value: riskTypeSecurity}
	RiskTypeEnvironment = RiskType{value: riskTypeEnvironment}
	RiskTypeSocial      = RiskType{value: riskTypeSocial}
	RiskTypeCyber       = RiskType{value: riskTypeCyber}
)

// Order matters: it is the order reported in validation messages.
var allRiskTypes = []RiskType{RiskTypeSecurity, RiskTypeEnvironment, RiskTypeSocial, RiskTypeCyber}

// RiskTypes returns every accepted risk type.
func RiskTypes() []RiskType {
	out := make([]RiskType, len(allRiskTypes))
	copy(out, allRiskTypes)
	return out
}

// RiskTypeNames returns the accepted risk type names.
func RiskTypeNames() []string {
	names := make([]string, 0, len(allRiskTypes))
	for _, t := range allRiskTypes {
		names = append(names, t.value)
	}
	return names
}

// NewRiskType validates s against the closed set of risk types.
func NewRiskType(s string) (RiskType, error) {
	for _, t := range allRiskTypes {
		if t.value == s {
			return t, nil
		}
	}
	allowed := RiskTypeNames()
	return RiskType{}, domainerr.New(
		domainerr.KindInvalidType,
		"Type must be one of: "+strings.Join(allowed, ", "),
		map[string]any{"value": s, "allowed": allowed},
	)
}

// String returns the string representation of the risk type.
func (t RiskType) String() string { return t.value }

// IsZero returns true if the risk type has not been initialised.
func (t RiskType) IsZero() bool { return t.value == "" }

// Equal returns true when both types carry the same value.
func (t RiskType) Equal(other RiskType) bool { return t.value == other.value }
