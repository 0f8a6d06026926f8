package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/risk-service/internal/domain/domainerr"
)

// AssertDomainError checks that err carries a domain error of the given kind
// somewhere in its chain.
func AssertDomainError(t *testing.T, err error, kind domainerr.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, domainerr.KindOf(err), "error: %v", err)
}
