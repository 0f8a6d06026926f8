package valueobject

import "strconv"

// Probability is an immutable value object rating the likelihood of a risk on a 1..5 scale.
type Probability struct {
	value int
}

// ProbabilityRare returns the lowest probability (1).
func ProbabilityRare() Probability { return Probability{value: 1} }

// ProbabilityPossible returns the midpoint probability (3).
func ProbabilityPossible() Probability { return Probability{value: 3} }

// ProbabilityCertain returns the highest probability (5).
func ProbabilityCertain() Probability { return Probability{value: 5} }

// NewProbability validates v and creates a Probability.
func NewProbability(v int) (Probability, error) {
	if err := checkLevel("Probability", v); err != nil {
		return Probability{}, err
	}
	return Probability{value: v}, nil
}

// Int returns the numeric probability.
func (p Probability) Int() int { return p.value }

// String returns the decimal representation of the probability.
func (p Probability) String() string { return strconv.Itoa(p.value) }

// IsZero returns true if the probability has not been initialised.
func (p Probability) IsZero() bool { return p.value == 0 }

// Equal returns true when both probabilities carry the same value.
func (p Probability) Equal(other Probability) bool { return p.value == other.value }
