package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/bibbank/risk-service/internal/domain/model"
	"github.com/bibbank/risk-service/internal/domain/port"
	"github.com/bibbank/risk-service/internal/domain/valueobject"
)

var _ port.RiskHistoryRepository = (*RiskHistoryRepository)(nil)

// RiskHistoryRepository implements port.RiskHistoryRepository using SQLite.
type RiskHistoryRepository struct {
	db *sql.DB
}

// NewRiskHistoryRepository creates a repository. The schema must already exist; see NewStore.
func NewRiskHistoryRepository(db *sql.DB) *RiskHistoryRepository {
	return &RiskHistoryRepository{db: db}
}

// Save appends a history record.
func (r *RiskHistoryRepository) Save(ctx context.Context, h model.RiskHistory) (model.RiskHistory, error) {
	var changes sql.NullString
	if c := h.Changes(); len(c) > 0 {
		raw, err := json.Marshal(c)
		if err != nil {
			return model.RiskHistory{}, fmt.Errorf("failed to marshal history changes: %w", err)
		}
		changes = sql.NullString{String: string(raw), Valid: true}
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO risk_history (risk_id, action, changes, actor_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		h.RiskID(), h.Action().String(), changes, nullInt64(h.ActorID()), formatTime(h.CreatedAt()),
	)
	if err != nil {
		return model.RiskHistory{}, fmt.Errorf("failed to insert risk history: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.RiskHistory{}, fmt.Errorf("failed to read history id: %w", err)
	}
	return h.WithID(id), nil
}

// FindByRiskID returns the records of one risk, newest first.
func (r *RiskHistoryRepository) FindByRiskID(ctx context.Context, riskID int64) ([]model.RiskHistory, error) {
	return r.query(ctx,
		`SELECT id, risk_id, action, changes, actor_id, created_at FROM risk_history
		WHERE risk_id = ? ORDER BY created_at DESC, id DESC`,
		riskID,
	)
}

// FindAll returns every record, newest first.
func (r *RiskHistoryRepository) FindAll(ctx context.Context) ([]model.RiskHistory, error) {
	return r.query(ctx,
		`SELECT id, risk_id, action, changes, actor_id, created_at FROM risk_history
		ORDER BY created_at DESC, id DESC`,
	)
}

func (r *RiskHistoryRepository) query(ctx context.Context, query string, args ...any) ([]model.RiskHistory, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]model.RiskHistory, 0)
	for rows.Next() {
		var (
			id, riskID int64
			action     string
			changes    sql.NullString
			actorID    sql.NullInt64
			createdAt  string
		)
		if err := rows.Scan(&id, &riskID, &action, &changes, &actorID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan risk history: %w", err)
		}

		a, err := valueobject.NewHistoryAction(action)
		if err != nil {
			return nil, fmt.Errorf("failed to parse history action: %w", err)
		}
		var decoded map[string]any
		if changes.Valid && changes.String != "" {
			if err := json.Unmarshal([]byte(changes.String), &decoded); err != nil {
				return nil, fmt.Errorf("failed to unmarshal history changes: %w", err)
			}
		}
		created, err := parseTime(createdAt)
		if err != nil {
			return nil, err
		}

		entries = append(entries, model.ReconstructRiskHistory(id, riskID, a, decoded, actorID.Int64, created))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate risk history: %w", err)
	}
	return entries, nil
}
