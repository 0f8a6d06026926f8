package valueobject

import "strconv"

// ScoreLevel is the qualitative band a RiskScore falls into.
type ScoreLevel string

const (
	ScoreLevelLow      ScoreLevel = "low"
	ScoreLevelMedium   ScoreLevel = "medium"
	ScoreLevelHigh     ScoreLevel = "high"
	ScoreLevelCritical ScoreLevel = "critical"
)

// Band lower bounds.
const (
	CriticalThreshold = 25
	HighThreshold     = 16
	MediumThreshold   = 8
)

// RiskScore is the numeric exposure derived from severity and probability.
// It is not range-checked; calculators are responsible for producing sane values.
type RiskScore struct {
	value int
}

// NewRiskScore wraps v as a RiskScore.
func NewRiskScore(v int) RiskScore {
	return RiskScore{value: v}
}

// CalculateRiskScore returns severity multiplied by probability.
func CalculateRiskScore(s Severity, p Probability) RiskScore {
	return RiskScore{value: s.Int() * p.Int()}
}

// Int returns the numeric score.
func (r RiskScore) Int() int { return r.value }

// String returns the decimal representation of the score.
func (r RiskScore) String() string { return strconv.Itoa(r.value) }

// Equal returns true when both scores carry the same value.
func (r RiskScore) Equal(other RiskScore) bool { return r.value == other.value }

// Level maps the score onto its band.
func (r RiskScore) Level() ScoreLevel {
	switch {
	case r.value >= CriticalThreshold:
		return ScoreLevelCritical
	case r.value >= HighThreshold:
		return ScoreLevelHigh
	case r.value >= MediumThreshold:
		return ScoreLevelMedium
	default:
		return ScoreLevelLow
	}
}

func (r RiskScore) IsCritical() bool { return r.Level() == ScoreLevelCritical }
func (r RiskScore) IsHigh() bool     { return r.Level() == ScoreLevelHigh }
func (r RiskScore) IsMedium() bool   { return r.Level() == ScoreLevelMedium }
func (r RiskScore) IsLow() bool      { return r.Level() == ScoreLevelLow }
