// Package memory provides in-memory repositories for tests and ephemeral runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bibbank/risk-service/internal/domain/model"
	"github.com/bibbank/risk-service/internal/domain/port"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
)

// RiskRepository implements port.RiskRepository on a map.
type RiskRepository struct {
	mu     sync.RWMutex
	risks  map[int64]model.Risk
	nextID int64
}

// NewRiskRepository creates an empty RiskRepository.
func NewRiskRepository() *RiskRepository {
	return &RiskRepository{risks: make(map[int64]model.Risk)}
}

// Save assigns the next id to an unsaved risk and stores it. Saving a
// persisted risk that is no longer stored returns a not-found error.
func (r *RiskRepository) Save(_ context.Context, risk model.Risk) (model.Risk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !risk.IsPersisted() {
		r.nextID++
		risk = risk.WithID(r.nextID)
	} else if _, ok := r.risks[risk.ID()]; !ok {
		return model.Risk{}, model.RiskNotFound(risk.ID())
	}
	r.risks[risk.ID()] = risk
	return risk, nil
}

// Delete removes a risk.
func (r *RiskRepository) Delete(_ context.Context, risk model.Risk) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.risks[risk.ID()]; !ok {
		return model.RiskNotFound(risk.ID())
	}
	delete(r.risks, risk.ID())
	return nil
}

// FindByID retrieves a risk by its identifier.
func (r *RiskRepository) FindByID(_ context.Context, id int64) (model.Risk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	risk, ok := r.risks[id]
	if !ok {
		return model.Risk{}, model.RiskNotFound(id)
	}
	return risk, nil
}

// FindAll returns every risk, newest first.
func (r *RiskRepository) FindAll(_ context.Context) ([]model.Risk, error) {
	return r.filter(func(model.Risk) bool { return true }), nil
}

// FindByStatus returns risks in the given status, newest first.
func (r *RiskRepository) FindByStatus(_ context.Context, status valueobject.RiskStatus) ([]model.Risk, error) {
	return r.filter(func(risk model.Risk) bool { return risk.Status().Equal(status) }), nil
}

// FindBySite returns risks linked to the site, newest first.
func (r *RiskRepository) FindBySite(_ context.Context, siteID int64) ([]model.Risk, error) {
	return r.filter(func(risk model.Risk) bool { return risk.SiteID() == siteID }), nil
}

// FindCriticalRisks returns risks scoring at least port.CriticalScoreThreshold,
// highest score first.
func (r *RiskRepository) FindCriticalRisks(_ context.Context) ([]model.Risk, error) {
	out := r.filter(func(risk model.Risk) bool {
		return risk.Score().Int() >= port.CriticalScoreThreshold
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score().Int() > out[j].Score().Int()
	})
	return out, nil
}

// Ping implements port.HealthChecker.
func (r *RiskRepository) Ping(context.Context) error { return nil }

// filter returns matching risks newest first. Ties on createdAt are broken by id.
func (r *RiskRepository) filter(match func(model.Risk) bool) []model.Risk {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Risk, 0, len(r.risks))
	for _, risk := range r.risks {
		if match(risk) {
			out = append(out, risk)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().After(out[j].CreatedAt())
		}
		return out[i].ID() > out[j].ID()
	})
	return out
}
