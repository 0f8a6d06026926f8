package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bibbank/risk-service/internal/domain/valueobject"
)

// ScoreCalculator derives a RiskScore from severity and probability.
// Implementations are interchangeable and selected by name.
type ScoreCalculator interface {
	Calculate(severity valueobject.Severity, probability valueobject.Probability) valueobject.RiskScore
	Name() string
}

// Calculator names.
const (
	CalculatorSimple   = "simple"
	CalculatorMatrix   = "matrix"
	CalculatorAdvanced = "advanced"
)

var calculators = map[string]func() ScoreCalculator{
	CalculatorSimple:   func() ScoreCalculator { return SimpleCalculator{} },
	CalculatorMatrix:   func() ScoreCalculator { return MatrixCalculator{} },
	CalculatorAdvanced: func() ScoreCalculator { return NewAdvancedCalculator() },
}

// NewScoreCalculator returns the calculator registered under name.
func NewScoreCalculator(name string) (ScoreCalculator, error) {
	ctor, ok := calculators[name]
	if !ok {
		return nil, fmt.Errorf("unknown score calculator %q: expected one of %s", name, strings.Join(ScoreCalculatorNames(), ", "))
	}
	return ctor(), nil
}

// ScoreCalculatorNames lists the registered calculator names in sorted order.
func ScoreCalculatorNames() []string {
	names := make([]string, 0, len(calculators))
	for name := range calculators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
