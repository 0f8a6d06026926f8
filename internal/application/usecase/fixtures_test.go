package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bibbank/risk-service/internal/domain/model"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
)

var seededAt = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

func persistedRisk(t *testing.T, id int64, status valueobject.RiskStatus, severity, probability int) model.Risk {
	t.Helper()
	s, err := valueobject.NewSeverity(severity)
	require.NoError(t, err)
	p, err := valueobject.NewProbability(probability)
	require.NoError(t, err)

	return model.ReconstructRisk(
		id, "Seeded risk", "",
		valueobject.RiskTypeSecurity,
		s, p,
		status,
		0, 0,
		seededAt, seededAt,
	)
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }
