package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/bibbank/risk-service/internal/domain/model"
	"github.com/bibbank/risk-service/internal/domain/port"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
	pkgpostgres "github.com/bibbank/risk-service/pkg/postgres"
)

var _ port.RiskHistoryRepository = (*RiskHistoryRepository)(nil)

const historyColumns = `id, risk_id, action, changes, actor_id, created_at`

// RiskHistoryRepository implements port.RiskHistoryRepository using PostgreSQL.
type RiskHistoryRepository struct {
	db pkgpostgres.Querier
}

// NewRiskHistoryRepository creates a repository over a pool or a transaction.
func NewRiskHistoryRepository(db pkgpostgres.Querier) *RiskHistoryRepository {
	return &RiskHistoryRepository{db: db}
}

// Save appends a history record.
func (r *RiskHistoryRepository) Save(ctx context.Context, h model.RiskHistory) (model.RiskHistory, error) {
	changes, err := marshalChanges(h.Changes())
	if err != nil {
		return model.RiskHistory{}, err
	}

	query := `
		INSERT INTO risk_history (risk_id, action, changes, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err = r.db.QueryRow(ctx, query,
		h.RiskID(),
		h.Action().String(),
		changes,
		nullInt64(h.ActorID()),
		h.CreatedAt(),
	).Scan(&id)
	if err != nil {
		return model.RiskHistory{}, fmt.Errorf("failed to insert risk history: %w", err)
	}
	return h.WithID(id), nil
}

// FindByRiskID returns the records of one risk, newest first.
func (r *RiskHistoryRepository) FindByRiskID(ctx context.Context, riskID int64) ([]model.RiskHistory, error) {
	return r.query(ctx,
		`SELECT `+historyColumns+` FROM risk_history WHERE risk_id = $1 ORDER BY created_at DESC, id DESC`,
		riskID,
	)
}

// FindAll returns every record, newest first.
func (r *RiskHistoryRepository) FindAll(ctx context.Context) ([]model.RiskHistory, error) {
	return r.query(ctx, `SELECT `+historyColumns+` FROM risk_history ORDER BY created_at DESC, id DESC`)
}

func (r *RiskHistoryRepository) query(ctx context.Context, query string, args ...any) ([]model.RiskHistory, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk history: %w", err)
	}
	defer rows.Close()

	entries := make([]model.RiskHistory, 0)
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate risk history: %w", err)
	}
	return entries, nil
}

func scanHistory(row pgx.Row) (model.RiskHistory, error) {
	var (
		id        int64
		riskID    int64
		action    string
		changes   []byte
		actorID   *int64
		createdAt time.Time
	)

	if err := row.Scan(&id, &riskID, &action, &changes, &actorID, &createdAt); err != nil {
		return model.RiskHistory{}, fmt.Errorf("failed to scan risk history: %w", err)
	}

	return reconstructHistory(id, riskID, action, changes, derefInt64(actorID), createdAt)
}

func reconstructHistory(
	id, riskID int64,
	action string,
	changes []byte,
	actorID int64,
	createdAt time.Time,
) (model.RiskHistory, error) {
	a, err := valueobject.NewHistoryAction(action)
	if err != nil {
		return model.RiskHistory{}, fmt.Errorf("failed to parse history action: %w", err)
	}
	decoded, err := unmarshalChanges(changes)
	if err != nil {
		return model.RiskHistory{}, err
	}
	return model.ReconstructRiskHistory(id, riskID, a, decoded, actorID, createdAt), nil
}

// marshalChanges encodes changes for a JSONB column; an empty map is NULL.
func marshalChanges(changes map[string]any) ([]byte, error) {
	if len(changes) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(changes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal history changes: %w", err)
	}
	return raw, nil
}

func unmarshalChanges(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var changes map[string]any
	if err := json.Unmarshal(raw, &changes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history changes: %w", err)
	}
	return changes, nil
}
