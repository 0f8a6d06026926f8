package valueobject_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/risk-service/internal/domain/domainerr"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
)

func TestNewRiskType(t *testing.T) {
	t.Run("accepts every known type", func(t *testing.T) {
		for _, name := range []string{"security", "environment", "social", "cyber"} {
			rt, err := valueobject.NewRiskType(name)
			require.NoError(t, err)
			assert.Equal(t, name, rt.String())
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := valueobject.NewRiskType("financial")
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerr.ErrInvalidType)
		assert.Equal(t, "Type must be one of: security, environment, social, cyber", err.Error())

		var de *domainerr.Error
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "financial", de.Fields["value"])
		assert.Equal(t, []string{"security", "environment", "social", "cyber"}, de.Fields["allowed"])
	})

	t.Run("is case sensitive", func(t *testing.T) {
		_, err := valueobject.NewRiskType("Security")
		assert.ErrorIs(t, err, domainerr.ErrInvalidType)
	})

	t.Run("rejects empty string", func(t *testing.T) {
		_, err := valueobject.NewRiskType("")
		assert.Error(t, err)
	})
}

func TestRiskTypes(t *testing.T) {
	types := valueobject.RiskTypes()
	require.Len(t, types, 4)
	assert.True(t, types[0].Equal(valueobject.RiskTypeSecurity))

	types[0] = valueobject.RiskTypeCyber
	assert.True(t, valueobject.RiskTypes()[0].Equal(valueobject.RiskTypeSecurity))
}
