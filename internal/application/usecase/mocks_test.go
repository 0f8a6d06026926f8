package usecase_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/bibbank/risk-service/internal/domain/domainerr"
	"github.com/bibbank/risk-service/internal/domain/model"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
	"github.com/bibbank/risk-service/pkg/events"
)

// --- Mock implementations ---

type mockRiskRepository struct {
	risks      map[int64]model.Risk
	nextID     int64
	saved      []model.Risk
	deleted    []int64
	saveErr    error
	findErr    error
	listErr    error
	lastFilter string
}

func newMockRiskRepository(seed ...model.Risk) *mockRiskRepository {
	repo := &mockRiskRepository{risks: make(map[int64]model.Risk)}
	for _, r := range seed {
		repo.risks[r.ID()] = r
		if r.ID() > repo.nextID {
			repo.nextID = r.ID()
		}
	}
	return repo
}

func (m *mockRiskRepository) Save(_ context.Context, risk model.Risk) (model.Risk, error) {
	if m.saveErr != nil {
		return model.Risk{}, m.saveErr
	}
	if !risk.IsPersisted() {
		m.nextID++
		risk = risk.WithID(m.nextID)
	}
	m.risks[risk.ID()] = risk
	m.saved = append(m.saved, risk)
	return risk, nil
}

func (m *mockRiskRepository) Delete(_ context.Context, risk model.Risk) error {
	delete(m.risks, risk.ID())
	m.deleted = append(m.deleted, risk.ID())
	return nil
}

func (m *mockRiskRepository) FindByID(_ context.Context, id int64) (model.Risk, error) {
	if m.findErr != nil {
		return model.Risk{}, m.findErr
	}
	r, ok := m.risks[id]
	if !ok {
		return model.Risk{}, domainerr.Newf(domainerr.KindNotFound, "Risk with ID %d not found", id)
	}
	return r, nil
}

func (m *mockRiskRepository) all() []model.Risk {
	out := make([]model.Risk, 0, len(m.risks))
	for _, r := range m.risks {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() > out[j].ID() })
	return out
}

func (m *mockRiskRepository) FindAll(_ context.Context) ([]model.Risk, error) {
	m.lastFilter = "all"
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.all(), nil
}

func (m *mockRiskRepository) FindByStatus(_ context.Context, status valueobject.RiskStatus) ([]model.Risk, error) {
	m.lastFilter = "status:" + status.String()
	var out []model.Risk
	for _, r := range m.all() {
		if r.Status().Equal(status) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRiskRepository) FindBySite(_ context.Context, siteID int64) ([]model.Risk, error) {
	m.lastFilter = fmt.Sprintf("site:%d", siteID)
	var out []model.Risk
	for _, r := range m.all() {
		if r.SiteID() == siteID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRiskRepository) FindCriticalRisks(_ context.Context) ([]model.Risk, error) {
	m.lastFilter = "critical"
	var out []model.Risk
	for _, r := range m.all() {
		if r.Score().Int() >= 20 {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score().Int() > out[j].Score().Int() })
	return out, nil
}

type mockHistoryRepository struct {
	entries []model.RiskHistory
	findErr error
}

func (m *mockHistoryRepository) Save(_ context.Context, h model.RiskHistory) (model.RiskHistory, error) {
	h = h.WithID(int64(len(m.entries) + 1))
	m.entries = append(m.entries, h)
	return h, nil
}

func (m *mockHistoryRepository) FindByRiskID(_ context.Context, riskID int64) ([]model.RiskHistory, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []model.RiskHistory
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].RiskID() == riskID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func (m *mockHistoryRepository) FindAll(_ context.Context) ([]model.RiskHistory, error) {
	out := make([]model.RiskHistory, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		out = append(out, m.entries[i])
	}
	return out, nil
}

type mockEventPublisher struct {
	publishedEvents []events.DomainEvent
	publishErr      error
}

func (m *mockEventPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}
