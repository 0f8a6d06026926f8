package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bibbank/risk-service/internal/domain/model"
)

// RiskHistoryRepository implements port.RiskHistoryRepository on a slice.
type RiskHistoryRepository struct {
	mu      sync.RWMutex
	entries []model.RiskHistory
}

// NewRiskHistoryRepository creates an empty RiskHistoryRepository.
func NewRiskHistoryRepository() *RiskHistoryRepository {
	return &RiskHistoryRepository{}
}

// Save appends a record and assigns its id.
func (r *RiskHistoryRepository) Save(_ context.Context, h model.RiskHistory) (model.RiskHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h = h.WithID(int64(len(r.entries) + 1))
	r.entries = append(r.entries, h)
	return h, nil
}

// FindByRiskID returns the records of one risk, newest first.
func (r *RiskHistoryRepository) FindByRiskID(_ context.Context, riskID int64) ([]model.RiskHistory, error) {
	return r.filter(func(h model.RiskHistory) bool { return h.RiskID() == riskID }), nil
}

// FindAll returns every record, newest first.
func (r *RiskHistoryRepository) FindAll(_ context.Context) ([]model.RiskHistory, error) {
	return r.filter(func(model.RiskHistory) bool { return true }), nil
}

// Len returns the number of stored records.
func (r *RiskHistoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *RiskHistoryRepository) filter(match func(model.RiskHistory) bool) []model.RiskHistory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.RiskHistory
	for _, h := range r.entries {
		if match(h) {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().After(out[j].CreatedAt())
		}
		return out[i].ID() > out[j].ID()
	})
	return out
}
