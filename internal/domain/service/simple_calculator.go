package service

import "github.com/bibbank/risk-service/internal/domain/valueobject"

// SimpleCalculator scores a risk as severity times probability.
// It is the rule the Risk aggregate applies to itself.
type SimpleCalculator struct{}

func (SimpleCalculator) Calculate(s valueobject.Severity, p valueobject.Probability) valueobject.RiskScore {
	return valueobject.CalculateRiskScore(s, p)
}

func (SimpleCalculator) Name() string { return CalculatorSimple }
