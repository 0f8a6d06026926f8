package service

import "github.com/bibbank/risk-service/internal/domain/valueobject"

// riskMatrix holds hand-tuned weights indexed by [severity-1][probability-1].
var riskMatrix = [5][5]int{
	{1, 2, 4, 7, 11},
	{3, 5, 8, 12, 16},
	{6, 9, 13, 17, 21},
	{10, 14, 18, 22, 24},
	{15, 19, 23, 25, 25},
}

// MatrixCalculator looks the score up in a fixed 5x5 risk matrix.
type MatrixCalculator struct{}

func (MatrixCalculator) Calculate(s valueobject.Severity, p valueobject.Probability) valueobject.RiskScore {
	return valueobject.NewRiskScore(riskMatrix[s.Int()-1][p.Int()-1])
}

func (MatrixCalculator) Name() string { return CalculatorMatrix }
