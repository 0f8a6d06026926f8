package valueobject

import (
	"fmt"
	"strconv"

	"github.com/bibbank/risk-service/internal/domain/domainerr"
)

// Bounds shared by Severity and Probability.
const (
	MinLevel = 1
	MaxLevel = 5
)

// Severity is an immutable value object rating the impact of a risk on a 1..5 scale.
type Severity struct {
	value int
}

// SeverityLow returns the lowest meaningful severity (1).
func SeverityLow() Severity { return Severity{value: 1} }

// SeverityMedium returns the midpoint severity (3).
func SeverityMedium() Severity { return Severity{value: 3} }

// SeverityHigh returns the highest severity (5).
func SeverityHigh() Severity { return Severity{value: 5} }

// NewSeverity validates v and creates a Severity.
func NewSeverity(v int) (Severity, error) {
	if err := checkLevel("Severity", v); err != nil {
		return Severity{}, err
	}
	return Severity{value: v}, nil
}

// Int returns the numeric severity.
func (s Severity) Int() int { return s.value }

// String returns the decimal representation of the severity.
func (s Severity) String() string { return strconv.Itoa(s.value) }

// IsZero returns true if the severity has not been initialised.
func (s Severity) IsZero() bool { return s.value == 0 }

// Equal returns true when both severities carry the same value.
func (s Severity) Equal(other Severity) bool { return s.value == other.value }

func checkLevel(name string, v int) error {
	if v < MinLevel || v > MaxLevel {
		return domainerr.New(
			domainerr.KindOutOfRange,
			fmt.Sprintf("%s must be between %d and %d, got %d", name, MinLevel, MaxLevel, v),
			map[string]any{"field": name, "value": v, "min": MinLevel, "max": MaxLevel},
		)
	}
	return nil
}
