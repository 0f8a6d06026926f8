package service

import (
	"github.com/shopspring/decimal"

	"github.com/bibbank/risk-service/internal/domain/valueobject"
)

// AdvancedCalculator weighs severity and probability quadratically:
// round((s²·p + p²·s) / 2), capped at the critical threshold.
type AdvancedCalculator struct {
	ceiling decimal.Decimal
}

// NewAdvancedCalculator creates an AdvancedCalculator capped at 25.
func NewAdvancedCalculator() AdvancedCalculator {
	return AdvancedCalculator{ceiling: decimal.NewFromInt(valueobject.CriticalThreshold)}
}

func (c AdvancedCalculator) Calculate(s valueobject.Severity, p valueobject.Probability) valueobject.RiskScore {
	sev := decimal.NewFromInt(int64(s.Int()))
	prob := decimal.NewFromInt(int64(p.Int()))

	weighted := sev.Mul(sev).Mul(prob).
		Add(prob.Mul(prob).Mul(sev)).
		Div(decimal.NewFromInt(2)).
		Round(0)

	ceiling := c.ceiling
	if ceiling.IsZero() {
		ceiling = decimal.NewFromInt(valueobject.CriticalThreshold)
	}
	return valueobject.NewRiskScore(int(decimal.Min(weighted, ceiling).IntPart()))
}

func (AdvancedCalculator) Name() string { return CalculatorAdvanced }
