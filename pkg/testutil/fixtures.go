package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bibbank/risk-service/internal/domain/model"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
)

// Deterministic values shared by adapter tests.
var (
	FixedTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	TestActorID int64 = 42
	TestSiteID  int64 = 7
)

// NewRisk builds an unsaved draft risk or fails the test.
func NewRisk(t *testing.T, title, riskType string, severity, probability int, at time.Time) model.Risk {
	t.Helper()

	s, err := valueobject.NewSeverity(severity)
	require.NoError(t, err)
	p, err := valueobject.NewProbability(probability)
	require.NoError(t, err)

	r, err := model.NewRisk(title, riskType, s, p, "", at)
	require.NoError(t, err)
	return r
}

// MoveTo walks a risk along the workflow through each target in turn.
func MoveTo(t *testing.T, r model.Risk, at time.Time, targets ...valueobject.RiskStatus) model.Risk {
	t.Helper()

	for _, target := range targets {
		var err error
		r, err = r.ChangeStatus(target, at)
		require.NoError(t, err)
	}
	return r
}
