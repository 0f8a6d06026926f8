package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/risk-service/internal/domain/domainerr"
	"github.com/bibbank/risk-service/internal/domain/model"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
	"github.com/bibbank/risk-service/internal/infrastructure/sqlite"
	"github.com/bibbank/risk-service/pkg/testutil"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "risks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := sqlite.NewStore(context.Background(), db)
	require.NoError(t, err)
	return store
}

func TestStore_RiskRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	require.NoError(t, store.Ping(ctx))

	draft := testutil.NewRisk(t, "Émeute sur site", "social", 3, 4, testutil.FixedTime).
		AssignToUser(testutil.TestActorID, testutil.FixedTime)
	saved, err := store.Risks.Save(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.ID())

	opened := testutil.MoveTo(t, saved, testutil.FixedTime.Add(time.Hour), valueobject.RiskStatusOpen)
	_, err = store.Risks.Save(ctx, opened)
	require.NoError(t, err)

	found, err := store.Risks.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Émeute sur site", found.Title())
	assert.Equal(t, 12, found.Score().Int())
	assert.True(t, found.Status().Equal(valueobject.RiskStatusOpen))
	assert.Equal(t, testutil.TestActorID, found.AssignedToID())
	assert.False(t, found.HasSite())
	assert.Equal(t, testutil.FixedTime, found.CreatedAt())
	assert.Equal(t, testutil.FixedTime.Add(time.Hour), found.UpdatedAt())

	_, err = store.Risks.FindByID(ctx, 2)
	testutil.AssertDomainError(t, err, domainerr.KindNotFound)

	require.NoError(t, store.Risks.Delete(ctx, found))
	assert.ErrorIs(t, store.Risks.Delete(ctx, found), domainerr.ErrNotFound)
}

func TestStore_Queries(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	seed := []struct {
		title string
		s, p  int
		site  int64
	}{
		{"Boundary", 4, 5, 0},
		{"Maximum", 5, 5, testutil.TestSiteID},
		{"Minor", 1, 3, testutil.TestSiteID},
		{"High", 4, 4, 0},
	}
	for i, r := range seed {
		risk := testutil.NewRisk(t, r.title, "security", r.s, r.p, testutil.FixedTime.Add(time.Duration(i)*time.Second))
		if r.site != 0 {
			risk = risk.AssignToSite(r.site, risk.CreatedAt())
		}
		_, err := store.Risks.Save(ctx, risk)
		require.NoError(t, err)
	}

	all, err := store.Risks.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "High", all[0].Title())
	assert.Equal(t, "Boundary", all[3].Title())

	critical, err := store.Risks.FindCriticalRisks(ctx)
	require.NoError(t, err)
	require.Len(t, critical, 2)
	assert.Equal(t, "Maximum", critical[0].Title())
	assert.Equal(t, "Boundary", critical[1].Title())

	bySite, err := store.Risks.FindBySite(ctx, testutil.TestSiteID)
	require.NoError(t, err)
	require.Len(t, bySite, 2)
	assert.Equal(t, "Minor", bySite[0].Title())

	open, err := store.Risks.FindByStatus(ctx, valueobject.RiskStatusOpen)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestStore_History(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	_, err := store.History.Save(ctx, model.RecordHistory(1, valueobject.HistoryActionCreated, nil, 0, testutil.FixedTime))
	require.NoError(t, err)
	saved, err := store.History.Save(ctx, model.RecordHistory(1, valueobject.HistoryActionStatusChanged,
		map[string]any{"old_status": "draft", "new_status": "open"}, testutil.TestActorID, testutil.FixedTime.Add(time.Minute)))
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.ID())

	entries, err := store.History.FindByRiskID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, valueobject.HistoryActionStatusChanged, entries[0].Action())
	assert.Equal(t, map[string]any{"old_status": "draft", "new_status": "open"}, entries[0].Changes())
	assert.Equal(t, testutil.TestActorID, entries[0].ActorID())
	assert.Nil(t, entries[1].Changes())
	assert.Equal(t, int64(0), entries[1].ActorID())

	all, err := store.History.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestNewStore_Idempotent(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "risks.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = sqlite.NewStore(context.Background(), db)
	require.NoError(t, err)
	_, err = sqlite.NewStore(context.Background(), db)
	require.NoError(t, err)
}
