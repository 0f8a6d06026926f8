package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/risk-service/internal/domain/valueobject"
)

func TestNewRiskStatus(t *testing.T) {
	for _, s := range valueobject.RiskStatuses() {
		parsed, err := valueobject.NewRiskStatus(s.String())
		require.NoError(t, err)
		assert.True(t, parsed.Equal(s))
	}

	_, err := valueobject.NewRiskStatus("archived")
	assert.Error(t, err)
}

func TestRiskStatus_CanTransitionTo(t *testing.T) {
	allowed := map[string][]string{
		"draft":     {"open"},
		"open":      {"assessed", "closed"},
		"assessed":  {"mitigated", "closed"},
		"mitigated": {"closed"},
		"closed":    {},
	}

	for _, from := range valueobject.RiskStatuses() {
		for _, to := range valueobject.RiskStatuses() {
			want := false
			for _, a := range allowed[from.String()] {
				if a == to.String() {
					want = true
				}
			}
			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				assert.Equal(t, want, from.CanTransitionTo(to))
			})
		}
	}
}

func TestRiskStatus_AllowedTransitions(t *testing.T) {
	t.Run("lists reachable statuses in order", func(t *testing.T) {
		next := valueobject.RiskStatusOpen.AllowedTransitions()
		assert.Equal(t, []valueobject.RiskStatus{valueobject.RiskStatusAssessed, valueobject.RiskStatusClosed}, next)
	})

	t.Run("closed is terminal", func(t *testing.T) {
		assert.Empty(t, valueobject.RiskStatusClosed.AllowedTransitions())
	})

	t.Run("returns a copy", func(t *testing.T) {
		next := valueobject.RiskStatusDraft.AllowedTransitions()
		next[0] = valueobject.RiskStatusClosed
		assert.True(t, valueobject.RiskStatusDraft.AllowedTransitions()[0].Equal(valueobject.RiskStatusOpen))
	})

	t.Run("no self transitions", func(t *testing.T) {
		for _, s := range valueobject.RiskStatuses() {
			assert.False(t, s.CanTransitionTo(s), s.String())
		}
	})
}

func TestRiskStatus_Predicates(t *testing.T) {
	assert.True(t, valueobject.RiskStatusDraft.IsDraft())
	assert.False(t, valueobject.RiskStatusOpen.IsDraft())
	assert.True(t, valueobject.RiskStatusClosed.IsClosed())
	assert.False(t, valueobject.RiskStatusMitigated.IsClosed())

	var zero valueobject.RiskStatus
	assert.True(t, zero.IsZero())
}
