package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bibbank/risk-service/internal/domain/model"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
)

func TestRecordHistory(t *testing.T) {
	t.Run("records a status change", func(t *testing.T) {
		changes := map[string]any{"old_status": "draft", "new_status": "open"}
		h := model.RecordHistory(5, valueobject.HistoryActionStatusChanged, changes, 0, baseTime)

		assert.Equal(t, int64(0), h.ID())
		assert.Equal(t, int64(5), h.RiskID())
		assert.Equal(t, valueobject.HistoryActionStatusChanged, h.Action())
		assert.Equal(t, changes, h.Changes())
		assert.Equal(t, int64(0), h.ActorID())
		assert.Equal(t, baseTime, h.CreatedAt())
	})

	t.Run("changes are isolated from the caller", func(t *testing.T) {
		changes := map[string]any{"old_status": "draft"}
		h := model.RecordHistory(5, valueobject.HistoryActionStatusChanged, changes, 3, baseTime)

		changes["old_status"] = "tampered"
		got := h.Changes()
		got["new_status"] = "tampered"

		assert.Equal(t, map[string]any{"old_status": "draft"}, h.Changes())
	})

	t.Run("nil changes stay nil", func(t *testing.T) {
		h := model.RecordHistory(5, valueobject.HistoryActionCreated, nil, 0, baseTime)
		assert.Nil(t, h.Changes())
	})

	t.Run("reconstructs with id", func(t *testing.T) {
		at := baseTime.Add(time.Hour)
		h := model.ReconstructRiskHistory(11, 5, valueobject.HistoryActionAssessed, nil, 2, at)
		assert.Equal(t, int64(11), h.ID())
		assert.Equal(t, int64(2), h.ActorID())
		assert.Equal(t, at, h.CreatedAt())
		assert.Equal(t, int64(12), h.WithID(12).ID())
	})
}
